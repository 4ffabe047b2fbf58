package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestBuildArgs_FlagNamesOrderAndValues(t *testing.T) {
	cfg := DefaultConfig()
	got := BuildArgs(cfg)

	want := []string{
		"--index", "0",
		"--task", "aws",
		"--data_file", filepath.Join("aws", "data", "data.json"),
		"--llm_engine_name", "gpt-4o",
		"--root_cache_dir", filepath.Join("aws", "cache"),
		"--output_json_dir", filepath.Join("aws", "results", "quick_demo"),
		"--output_types", "direct",
		"--enabled_tools", "Mxgraph_Generator_Tool,Relevant_Patch_Zoomer_Tool,Python_Code_Generator_Tool,Image_Captioner_Tool",
		"--max_time", "300",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("BuildArgs =\n%v\nwant\n%v", got, want)
	}
}

func TestBuildArgs_MaxTimeForwardedUnchanged(t *testing.T) {
	args := BuildArgs(DefaultConfig())
	for i, a := range args {
		if a == "--max_time" {
			if args[i+1] != "300" {
				t.Fatalf("--max_time value = %q, want %q", args[i+1], "300")
			}
			return
		}
	}
	t.Fatal("--max_time flag not present")
}

func TestBuildArgs_EnabledToolsSplitToFourDefaults(t *testing.T) {
	args := BuildArgs(DefaultConfig())

	var value string
	for i, a := range args {
		if a == "--enabled_tools" {
			value = args[i+1]
			break
		}
	}
	if value == "" {
		t.Fatal("--enabled_tools flag not present")
	}

	parts := strings.Split(value, ",")
	want := []string{
		"Mxgraph_Generator_Tool",
		"Relevant_Patch_Zoomer_Tool",
		"Python_Code_Generator_Tool",
		"Image_Captioner_Tool",
	}
	if !reflect.DeepEqual(parts, want) {
		t.Fatalf("enabled tools = %v, want %v", parts, want)
	}
}

func TestBuildArgs_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	first := BuildArgs(cfg)
	second := BuildArgs(cfg)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical configs produced different vectors:\n%v\n%v", first, second)
	}
}

func TestNewInvocation_InjectsCorrelationEnv(t *testing.T) {
	cfg := DefaultConfig()
	inv := NewInvocation(cfg)

	if inv.RunID == "" {
		t.Fatal("run id is empty")
	}

	var foundID, foundLabel, foundLogDir bool
	for _, kv := range inv.Env {
		switch {
		case kv == "SOLVERUN_RUN_ID="+inv.RunID:
			foundID = true
		case kv == "SOLVERUN_RUN_LABEL=quick_demo":
			foundLabel = true
		case strings.HasPrefix(kv, "SOLVERUN_RUN_LOG_DIR="):
			foundLogDir = true
		}
	}
	if !foundID || !foundLabel || !foundLogDir {
		t.Fatalf("correlation env incomplete: id=%v label=%v logdir=%v", foundID, foundLabel, foundLogDir)
	}
}

func TestWriteSnapshot_RecordsExactVector(t *testing.T) {
	cfg := DefaultConfig()
	inv := NewInvocation(cfg)

	path := filepath.Join(t.TempDir(), inv.RunID+".args.json")
	if err := inv.WriteSnapshot(path); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var snap struct {
		RunID    string   `json:"run_id"`
		Task     string   `json:"task"`
		SolveBin string   `json:"solve_bin"`
		Args     []string `json:"args"`
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if snap.RunID != inv.RunID {
		t.Fatalf("snapshot run id = %q, want %q", snap.RunID, inv.RunID)
	}
	if snap.Task != "aws" {
		t.Fatalf("snapshot task = %q, want %q", snap.Task, "aws")
	}
	if !reflect.DeepEqual(snap.Args, inv.Args) {
		t.Fatalf("snapshot args = %v, want %v", snap.Args, inv.Args)
	}
}
