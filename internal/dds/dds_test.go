package dds

import (
	"errors"
	"reflect"
	"testing"

	"github.com/marram/godap/model"
)

const simpleGridDDS = `Dataset {
    Grid {
     ARRAY:
        Int32 SimpleGrid[y = 2][x = 3];
     MAPS:
        Int32 y[y = 2];
        Int32 x[x = 3];
    } SimpleGrid;
} SimpleGrid;
`

func TestParseGrid(t *testing.T) {
	ds, err := Parse(simpleGridDDS)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ds.Name() != "SimpleGrid" {
		t.Fatalf("name = %q", ds.Name())
	}
	grid, err := ds.Get("SimpleGrid")
	if err != nil {
		t.Fatal(err)
	}
	if grid.Kind != model.KindGrid {
		t.Fatalf("kind = %v", grid.Kind)
	}
	primary := grid.Children()[0]
	if !reflect.DeepEqual(primary.Shape, []int{2, 3}) {
		t.Fatalf("primary shape = %v", primary.Shape)
	}
	if !reflect.DeepEqual(primary.Dims, []string{"y", "x"}) {
		t.Fatalf("primary dims = %v", primary.Dims)
	}
	if got := grid.Keys(); !reflect.DeepEqual(got, []string{"SimpleGrid", "y", "x"}) {
		t.Fatalf("grid children = %v", got)
	}
}

func TestParseStructureAndSequence(t *testing.T) {
	src := `Dataset {
    Structure {
        Int32 lon;
        Float64 temp[5];
    } location;
    Sequence {
        String id;
        Int32 depth;
    } cast;
} Sample;
`
	ds, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	loc, _ := ds.Get("location")
	if loc.Kind != model.KindStructure {
		t.Fatalf("location kind = %v", loc.Kind)
	}
	temp, err := ds.Get("location.temp")
	if err != nil || !reflect.DeepEqual(temp.Shape, []int{5}) {
		t.Fatalf("temp = %+v, err %v", temp, err)
	}
	cast, _ := ds.Get("cast")
	if cast.Kind != model.KindSequence {
		t.Fatalf("cast kind = %v", cast.Kind)
	}
	if got := cast.Keys(); !reflect.DeepEqual(got, []string{"id", "depth"}) {
		t.Fatalf("cast fields = %v", got)
	}
}

func TestParseUnnamedDimension(t *testing.T) {
	ds, err := Parse("Dataset {\n    Byte raw[16];\n} D;\n")
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := ds.Get("raw")
	if !reflect.DeepEqual(raw.Shape, []int{16}) || raw.Dims[0] != "" {
		t.Fatalf("raw = shape %v dims %v", raw.Shape, raw.Dims)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	ds, err := Parse(simpleGridDDS)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Parse(Render(ds))
	if err != nil {
		t.Fatalf("re-parse rendered descriptor: %v", err)
	}
	if Render(again) != Render(ds) {
		t.Fatalf("render not stable:\n%s\nvs\n%s", Render(again), Render(ds))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"unbalanced", "Dataset {\n Int32 a;\n", model.CodeUnbalancedBlock},
		{"unknown type", "Dataset { Complex128 a; } D;", model.CodeUnknownType},
		{"missing semicolon", "Dataset { Int32 a } D;", model.CodeUnexpectedToken},
		{"not a dataset", "Attributes { }", model.CodeUnexpectedToken},
		{"bad extent", "Dataset { Int32 a[x = many]; } D;", model.CodeSyntax},
		{"map mismatch", `Dataset {
    Grid {
     ARRAY:
        Int32 g[y = 2][x = 3];
     MAPS:
        Int32 y[y = 2];
        Int32 x[x = 4];
    } g;
} D;`, model.CodeSyntax},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src)
			var pe *model.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("want *ParseError, got %T (%v)", err, err)
			}
			if pe.Code != tc.code {
				t.Fatalf("code = %q, want %q (%v)", pe.Code, tc.code, pe)
			}
		})
	}
}
