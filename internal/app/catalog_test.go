package app

import (
	"reflect"
	"testing"
)

func TestSplitTools_TrimsAndPreservesOrder(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "default four",
			in:   "Mxgraph_Generator_Tool,Relevant_Patch_Zoomer_Tool,Python_Code_Generator_Tool,Image_Captioner_Tool",
			want: []string{"Mxgraph_Generator_Tool", "Relevant_Patch_Zoomer_Tool", "Python_Code_Generator_Tool", "Image_Captioner_Tool"},
		},
		{
			name: "whitespace trimmed",
			in:   " A_Tool , B_Tool ",
			want: []string{"A_Tool", "B_Tool"},
		},
		{
			name: "empties dropped",
			in:   "A_Tool,,B_Tool,",
			want: []string{"A_Tool", "B_Tool"},
		},
		{
			name: "duplicates preserved",
			in:   "A_Tool,A_Tool",
			want: []string{"A_Tool", "A_Tool"},
		},
		{
			name: "empty input",
			in:   "",
			want: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitTools(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SplitTools(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestJoinTools_InverseOfSplit(t *testing.T) {
	tools := DefaultTools()
	joined := JoinTools(tools)
	if got := SplitTools(joined); !reflect.DeepEqual(got, tools) {
		t.Fatalf("SplitTools(JoinTools(...)) = %v, want %v", got, tools)
	}
}

func TestDefaultTools_AllInCatalog(t *testing.T) {
	for _, name := range DefaultTools() {
		tool, ok := LookupTool(name)
		if !ok {
			t.Fatalf("default tool %q missing from catalog", name)
		}
		if tool.Description == "" {
			t.Fatalf("catalog entry %q has no description", name)
		}
	}
}

func TestLookupTool_UnknownAllowed(t *testing.T) {
	if _, ok := LookupTool("Totally_Custom_Tool"); ok {
		t.Fatal("unknown tool unexpectedly present in catalog")
	}
}
