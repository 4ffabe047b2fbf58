package app

import "strings"

// Tool is a catalog entry. The catalog is advisory: tool names are forwarded
// to the solve program verbatim, and names not listed here are allowed
// everywhere.
type Tool struct {
	Name        string
	Description string
}

var toolCatalog = []Tool{
	{Name: "Mxgraph_Generator_Tool", Description: "Convert components into an AWS architecture diagram"},
	{Name: "Relevant_Patch_Zoomer_Tool", Description: "Identify and zoom into relevant areas"},
	{Name: "Python_Code_Generator_Tool", Description: "Generate Python code for automation"},
	{Name: "Image_Captioner_Tool", Description: "Generate textual descriptions of uploaded images"},
	{Name: "AWS_Diagram_Generator_Tool", Description: "Convert a textual AWS architecture description into a structured diagram"},
	{Name: "AWS_Documentation_Fetcher_Tool", Description: "Retrieve AWS documentation and suggest equivalent AWS services"},
}

// DefaultTools returns the tools enabled when nothing overrides them.
// Order matters: it is preserved onto the --enabled_tools flag.
func DefaultTools() []string {
	return []string{
		"Mxgraph_Generator_Tool",
		"Relevant_Patch_Zoomer_Tool",
		"Python_Code_Generator_Tool",
		"Image_Captioner_Tool",
	}
}

func KnownTools() []Tool {
	out := make([]Tool, len(toolCatalog))
	copy(out, toolCatalog)
	return out
}

func LookupTool(name string) (Tool, bool) {
	for _, t := range toolCatalog {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// SplitTools parses a comma-separated tool list. Entries are trimmed and
// empties dropped; order and duplicates are preserved, since registration
// order may matter to the solve program.
func SplitTools(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// JoinTools is the inverse of SplitTools and produces the exact
// --enabled_tools flag value.
func JoinTools(tools []string) string {
	return strings.Join(tools, ",")
}
