package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"printprobe/oid"
	"printprobe/snmp"
)

func testResponse() *snmp.Response {
	response := &snmp.Response{Variables: &oid.VariableSet{}}
	response.Variables.AddVariable(oid.NewOID("1.3.6.1.2.1.43.5.1.1.17.1"), "SN123")
	response.Variables.AddVariable(oid.NewOID("1.3.6.1.2.1.43.6.1.1.2.1.1"), "Front Cover")
	response.Variables.AddVariable(oid.NewOID("1.3.6.1.2.1.43.6.1.1.3.1.1"), "4")
	return response
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	response := testResponse()
	response.Errors = append(response.Errors, "SNMP response error (5): general error")

	if _, err := store.SaveResponse(ctx, "10.0.0.1", "public", response); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, ok, err := store.LastWalk(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected archived walk")
	}

	var gotOIDs, wantOIDs []string
	for _, v := range loaded.Variables.Variables() {
		gotOIDs = append(gotOIDs, v.NameAsString())
	}
	for _, v := range response.Variables.Variables() {
		wantOIDs = append(wantOIDs, v.NameAsString())
	}
	if !reflect.DeepEqual(gotOIDs, wantOIDs) {
		t.Fatalf("OID order not preserved: %v != %v", gotOIDs, wantOIDs)
	}
	if !reflect.DeepEqual(loaded.Variables.GetValues(), response.Variables.GetValues()) {
		t.Fatal("values not preserved")
	}
	if !reflect.DeepEqual(loaded.Errors, response.Errors) {
		t.Fatalf("errors not preserved: %v", loaded.Errors)
	}
}

func TestLastWalkPicksNewest(t *testing.T) {
	t.Parallel()

	store, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()

	first := &snmp.Response{Variables: &oid.VariableSet{}}
	first.Variables.AddVariable(oid.NewOID("1.3.6.1.2.1.43.5.1.1.17.1"), "OLD")
	if _, err := store.SaveResponse(ctx, "10.0.0.1", "public", first); err != nil {
		t.Fatal(err)
	}

	second := &snmp.Response{Variables: &oid.VariableSet{}}
	second.Variables.AddVariable(oid.NewOID("1.3.6.1.2.1.43.5.1.1.17.1"), "NEW")
	if _, err := store.SaveResponse(ctx, "10.0.0.1", "public", second); err != nil {
		t.Fatal(err)
	}

	loaded, ok, err := store.LastWalk(ctx, "10.0.0.1")
	if err != nil || !ok {
		t.Fatalf("load failed: %v %v", ok, err)
	}
	if v, _ := loaded.Variables.GetValue(oid.PrinterGeneralSerialNumber); v != "NEW" {
		t.Fatalf("expected newest walk, got serial %q", v)
	}
}

func TestLastWalkUnknownTarget(t *testing.T) {
	t.Parallel()

	store, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, ok, err := store.LastWalk(context.Background(), "10.9.9.9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("walk reported for never-walked target")
	}
}

func TestWalksListing(t *testing.T) {
	t.Parallel()

	store, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := store.SaveResponse(ctx, "10.0.0.1", "public", testResponse()); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.SaveResponse(ctx, "10.0.0.2", "public", testResponse()); err != nil {
		t.Fatal(err)
	}

	walks, err := store.Walks(ctx, "10.0.0.1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(walks) != 3 {
		t.Fatalf("expected 3 walks, got %d", len(walks))
	}
	for _, w := range walks {
		if w.Target != "10.0.0.1" {
			t.Errorf("wrong target in listing: %s", w.Target)
		}
		if w.ErrorCount != 0 {
			t.Errorf("unexpected error count: %d", w.ErrorCount)
		}
	}
	// Newest first.
	if walks[0].ID < walks[2].ID {
		t.Error("walks not ordered newest first")
	}

	limited, err := store.Walks(ctx, "10.0.0.1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Fatalf("limit not applied: %d", len(limited))
	}
}

func TestWalksRecordCommunity(t *testing.T) {
	t.Parallel()

	store, err := Open("")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := store.SaveResponse(ctx, "10.0.0.1", "internal", testResponse()); err != nil {
		t.Fatal(err)
	}

	walks, err := store.Walks(ctx, "10.0.0.1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(walks) != 1 {
		t.Fatalf("expected 1 walk, got %d", len(walks))
	}
	if walks[0].Community != "internal" {
		t.Errorf("community not recorded: %q", walks[0].Community)
	}
}

func TestOpenOnDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "walks.db")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := store.SaveResponse(ctx, "10.0.0.1", "public", testResponse()); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopen and confirm the walk survived.
	store, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, ok, err := store.LastWalk(ctx, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("walk not persisted across reopen")
	}
}
