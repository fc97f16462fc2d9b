// Package daptest provides an in-process DAP server and canonical fixture
// datasets for exercising the client without a network. It plays the role a
// local test application plays for the protocol's reference clients.
package daptest

import "github.com/marram/godap/model"

// SimpleGrid returns a dataset with one (2,3) grid named SimpleGrid, values
// 0..5, axis maps y=[0,1] and x=[0,1,2], and axis attributes.
func SimpleGrid() *model.Dataset {
	ds := model.NewDataset("SimpleGrid")
	ds.Root.Attrs["description"] = "A simple grid for testing."

	grid := model.NewNode("SimpleGrid", model.KindGrid)
	primary := model.NewVar("SimpleGrid", model.Int32, []int{2, 3}, []string{"y", "x"})
	primary.SetData([]int32{0, 1, 2, 3, 4, 5})
	grid.Append(primary)

	y := model.NewVar("y", model.Int32, []int{2}, []string{"y"})
	y.SetData([]int32{0, 1})
	y.Attrs["axis"] = "Y"
	grid.Append(y)

	x := model.NewVar("x", model.Int32, []int{3}, []string{"x"})
	x.SetData([]int32{0, 1, 2})
	x.Attrs["axis"] = "X"
	grid.Append(x)

	ds.Root.Append(grid)
	return ds
}

// SimpleSequence returns a dataset with one sequence named cast carrying the
// two canonical instances.
func SimpleSequence() *model.Dataset {
	ds := model.NewDataset("SimpleSequence")
	ds.Root.Attrs["description"] = "A simple sequence for testing."

	cast := model.NewNode("cast", model.KindSequence)
	fields := []struct {
		name string
		typ  model.PrimitiveType
	}{
		{"id", model.String},
		{"lon", model.Int32},
		{"lat", model.Int32},
		{"depth", model.Int32},
		{"time", model.Int32},
		{"temperature", model.Int32},
		{"salinity", model.Int32},
		{"pressure", model.Int32},
	}
	for _, f := range fields {
		cast.Append(model.NewVar(f.name, f.typ, nil, nil))
	}
	cast.Child("lon").Attrs["axis"] = "X"
	cast.Child("lat").Attrs["axis"] = "Y"
	cast.Child("depth").Attrs["axis"] = "Z"
	cast.Child("time").Attrs["axis"] = "T"
	cast.Child("time").Attrs["units"] = "days since 1970-01-01"
	cast.SetRows([][]any{
		{"1", int32(100), int32(-10), int32(0), int32(-1), int32(21), int32(35), int32(0)},
		{"2", int32(200), int32(10), int32(500), int32(1), int32(15), int32(35), int32(100)},
	})
	ds.Root.Append(cast)
	return ds
}

// SimpleTypes returns a flat dataset holding one scalar of every primitive
// type with the canonical fixture values.
func SimpleTypes() *model.Dataset {
	ds := model.NewDataset("SimpleTypes")

	vars := []struct {
		name string
		typ  model.PrimitiveType
		data any
	}{
		{"b", model.Byte, byte(0)},
		{"i32", model.Int32, int32(1)},
		{"ui32", model.UInt32, uint32(0)},
		{"i16", model.Int16, int16(0)},
		{"ui16", model.UInt16, uint16(0)},
		{"f32", model.Float32, float32(0)},
		{"f64", model.Float64, float64(1000)},
		{"s", model.String, "This is a data test string (pass 0)."},
		{"u", model.URL, "http://www.dods.org"},
	}
	for _, v := range vars {
		n := model.NewVar(v.name, v.typ, nil, nil)
		n.SetData(v.data)
		ds.Root.Append(n)
	}
	ds.Root.Child("b").Attrs["units"] = "unknown"
	ds.Root.Child("b").Attrs["Description"] = "A test byte"
	ds.Root.Child("i32").Attrs["units"] = "unknown"
	ds.Root.Child("i32").Attrs["Description"] = "A 32 bit test server int"

	facility := model.Attributes{
		"DataCenter":            "COAS Environmental Computer Facility",
		"PrincipleInvestigator": []any{"Mark Abbott", "Ph.D"},
		"DrifterType":           "MetOcean WOCE/OCM",
	}
	ds.Root.Attrs["Facility"] = facility
	return ds
}
