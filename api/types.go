package api

// EntitySpec mirrors the Bot API entity triple for dry-run requests.
type EntitySpec struct {
	Type   string `json:"type" validate:"required"`
	Offset int    `json:"offset" validate:"gte=0"`
	Length int    `json:"length" validate:"gt=0"`
}

type DryRunRequest struct {
	Text     string       `json:"text" validate:"required"`
	Entities []EntitySpec `json:"entities" validate:"required,dive"`
}

type InvocationInfo struct {
	Command string             `json:"command"`
	Args    map[string]*string `json:"args"`
	Missing []string           `json:"missing,omitempty"`
}

type ParamInfo struct {
	Name       string `json:"name"`
	Required   bool   `json:"required"`
	Default    string `json:"default,omitempty"`
	Variadic   bool   `json:"variadic,omitempty"`
	Injectable bool   `json:"injectable,omitempty"`
}

type CommandInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Aliases     []string    `json:"aliases,omitempty"`
	Params      []ParamInfo `json:"params,omitempty"`
}
