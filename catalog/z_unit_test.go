package catalog_test

import (
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/measurelab/catalog"
)

func cfgFS() fstest.MapFS {
	return fstest.MapFS{
		"legendre.yaml": &fstest.MapFile{Data: []byte("measure_name: legendre\nmeasure_id: 1\nkind_key: legendre\n")},
		"jacobi.yaml":   &fstest.MapFile{Data: []byte("measure_name: jacobi\nmeasure_id: 2\nkind_key: jacobi\nparams:\n  alpha: 1.0\n  beta: 2.0\n")},
	}
}

func TestCatalogRegisterAndLookup(t *testing.T) {
	c, err := catalog.New(cfgFS())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = c.Register(
		catalog.Entry{MID: 1, Name: "Legendre", ConfigName: "legendre.yaml"},
		catalog.Entry{MID: 2, Name: "jacobi", ConfigName: "jacobi.yaml"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 名稱正規化：大小寫不敏感
	if _, ok := c.GetByName("LEGENDRE"); !ok {
		t.Fatalf("name lookup should be case-insensitive")
	}
	if got := c.IDs(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected ids: %v", got)
	}

	ms, err := c.MeasureSettingById(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.Params.Alpha != 1.0 || ms.Params.Beta != 2.0 {
		t.Fatalf("unexpected setting: %+v", ms)
	}
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	c, err := catalog.New(cfgFS())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Register(
		catalog.Entry{MID: 1, Name: "a", ConfigName: "legendre.yaml"},
		catalog.Entry{MID: 1, Name: "b", ConfigName: "jacobi.yaml"},
	); err == nil {
		t.Fatalf("duplicate mid must fail")
	}
	if err := c.Register(
		catalog.Entry{MID: 1, Name: "a", ConfigName: "legendre.yaml"},
		catalog.Entry{MID: 2, Name: "a", ConfigName: "jacobi.yaml"},
	); err == nil {
		t.Fatalf("duplicate name must fail")
	}
}

func TestCatalogFreeze(t *testing.T) {
	c, err := catalog.New(cfgFS())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Freeze()
	if err := c.Register(catalog.Entry{MID: 1, Name: "a", ConfigName: "legendre.yaml"}); err == nil {
		t.Fatalf("register after freeze must fail")
	}
}

func TestCatalogRejectsNestedFS(t *testing.T) {
	nested := fstest.MapFS{
		"sub/legendre.yaml": &fstest.MapFile{Data: []byte("measure_name: x\nkind_key: legendre\n")},
	}
	if _, err := catalog.New(nested); err == nil {
		t.Fatalf("nested config fs must fail")
	}
}
