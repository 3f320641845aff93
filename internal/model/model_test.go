package model

import (
	"errors"
	"strings"
	"testing"
)

var errStubLoad = errors.New("stub engine loaded")

type stubEngine struct{}

func (stubEngine) Name() string { return "stub" }

func (stubEngine) Extensions() []string { return []string{".stub"} }

func (stubEngine) Load(path string) (Model, error) { return nil, errStubLoad }

func TestOpenDispatchesByExtension(t *testing.T) {
	Register(stubEngine{})

	if _, err := Open("model.stub"); !errors.Is(err, errStubLoad) {
		t.Errorf("Open(model.stub) err = %v, want the stub engine to load it", err)
	}
	if _, err := Open("dir/MODEL.STUB"); !errors.Is(err, errStubLoad) {
		t.Errorf("Open(MODEL.STUB) err = %v, want case-insensitive dispatch", err)
	}
}

func TestOpenUnknownFormat(t *testing.T) {
	_, err := Open("model.bin")
	if err == nil {
		t.Fatal("Open(model.bin) err = nil, want unknown-format error")
	}
	if !strings.Contains(err.Error(), "no engine registered") {
		t.Errorf("Open(model.bin) err = %q, want it to name the missing engine", err)
	}
}
