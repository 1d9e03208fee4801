package models

type ParamType string

const (
	ParamText   ParamType = "text"
	ParamNumber ParamType = "number"
	ParamSelect ParamType = "select"
)

// ExecutionParam describes one field of a tool's run form. Label, Placeholder
// and Options may be localization keys.
type ExecutionParam struct {
	Label        string    `yaml:"label" json:"label"`
	Type         ParamType `yaml:"type" json:"type"`
	Options      []string  `yaml:"options,omitempty" json:"options,omitempty"`
	Required     bool      `yaml:"required,omitempty" json:"required,omitempty"`
	Placeholder  string    `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Min          *float64  `yaml:"min,omitempty" json:"min,omitempty"`
	Max          *float64  `yaml:"max,omitempty" json:"max,omitempty"`
	DefaultValue string    `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
}

type Tool struct {
	ID                    string           `yaml:"id" json:"id"`
	Name                  string           `yaml:"name" json:"name"`
	Description           string           `yaml:"description" json:"description"`
	LongDescription       string           `yaml:"longDescription,omitempty" json:"longDescription,omitempty"`
	Icon                  string           `yaml:"icon,omitempty" json:"icon,omitempty"`
	Status                ToolStatus       `yaml:"status" json:"status"`
	Progress              *float64         `yaml:"-" json:"progress,omitempty"`
	CategoryID            string           `yaml:"-" json:"categoryId"`
	AIPowered             bool             `yaml:"aiPowered,omitempty" json:"aiPowered,omitempty"`
	SampleExecutionParams []ExecutionParam `yaml:"sampleExecutionParams,omitempty" json:"sampleExecutionParams,omitempty"`
	RunTemplates          []string         `yaml:"runTemplates,omitempty" json:"runTemplates,omitempty"`
}

// Clone copies the tool including its mutable progress pointer.
func (t Tool) Clone() Tool {
	c := t
	if t.Progress != nil {
		p := *t.Progress
		c.Progress = &p
	}
	c.SampleExecutionParams = append([]ExecutionParam(nil), t.SampleExecutionParams...)
	c.RunTemplates = append([]string(nil), t.RunTemplates...)
	return c
}

type ToolCategory struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon,omitempty" json:"icon,omitempty"`
	Tools       []Tool `yaml:"tools" json:"tools"`
}

// Clone copies the category and all its tools.
func (c ToolCategory) Clone() ToolCategory {
	out := c
	out.Tools = make([]Tool, len(c.Tools))
	for i, t := range c.Tools {
		out.Tools[i] = t.Clone()
	}
	return out
}
