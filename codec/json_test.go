package codec

import (
	"reflect"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/marram/godap/daptest"
	"github.com/marram/godap/model"
)

func TestDatasetView(t *testing.T) {
	view := DatasetView(daptest.SimpleGrid())
	if view.Name != "SimpleGrid" {
		t.Fatalf("name = %q", view.Name)
	}
	if view.Attributes["description"] != "A simple grid for testing." {
		t.Fatalf("attributes = %#v", view.Attributes)
	}
	if len(view.Variables) != 1 {
		t.Fatalf("variables = %d", len(view.Variables))
	}
	grid := view.Variables[0]
	if grid.Kind != "Grid" || len(grid.Children) != 3 {
		t.Fatalf("grid = kind %q, %d children", grid.Kind, len(grid.Children))
	}
	primary := grid.Children[0]
	if primary.Type != "Int32" || !reflect.DeepEqual(primary.Shape, []int{2, 3}) {
		t.Fatalf("primary = type %q shape %v", primary.Type, primary.Shape)
	}
	if !reflect.DeepEqual(primary.Data, []int32{0, 1, 2, 3, 4, 5}) {
		t.Fatalf("primary data = %#v", primary.Data)
	}
}

func TestMarshalDataset(t *testing.T) {
	out, err := MarshalDataset(daptest.SimpleSequence())
	if err != nil {
		t.Fatalf("MarshalDataset: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["name"] != "SimpleSequence" {
		t.Fatalf("name = %v", decoded["name"])
	}
	vars, ok := decoded["variables"].([]any)
	if !ok || len(vars) != 1 {
		t.Fatalf("variables = %#v", decoded["variables"])
	}
	cast := vars[0].(map[string]any)
	if cast["kind"] != "Sequence" {
		t.Fatalf("kind = %v", cast["kind"])
	}
	rows, ok := cast["data"].([]any)
	if !ok || len(rows) != 2 {
		t.Fatalf("rows = %#v", cast["data"])
	}
}

func TestViewOmitsEmptyFields(t *testing.T) {
	ds := model.NewDataset("D")
	n := model.NewVar("v", model.Int32, nil, nil)
	n.SetData(int32(1))
	ds.Root.Append(n)

	out, err := MarshalDataset(ds)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatal(err)
	}
	v := decoded["variables"].([]any)[0].(map[string]any)
	for _, key := range []string{"shape", "dimensions", "attributes", "children"} {
		if _, present := v[key]; present {
			t.Errorf("scalar view carries empty %q", key)
		}
	}
}
