package registry

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/vovakirdan/shape-drop/internal/shapes"
)

type stubLayout struct{ name string }

func (s stubLayout) Name() string        { return s.name }
func (s stubLayout) Description() string { return "stub " + s.name }
func (s stubLayout) Generate(level, width, height int) []shapes.Shape {
	return make([]shapes.Shape, level)
}

func registerStub(name string) {
	Register(name, func(shapes.Options, *rand.Rand) Layout {
		return stubLayout{name: name}
	})
}

func TestRegisterCreateList(t *testing.T) {
	registerStub("test-b")
	registerStub("test-a")

	if !Exists("test-a") || Exists("test-missing") {
		t.Fatal("Exists() returned wrong answer")
	}

	l, err := Create("test-a", shapes.DefaultOptions(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if got := len(l.Generate(3, 10, 10)); got != 3 {
		t.Errorf("Generate(3) returned %d shapes", got)
	}

	var names []string
	for _, info := range List() {
		if strings.HasPrefix(info.Name, "test-") {
			names = append(names, info.Name)
			if info.Description != "stub "+info.Name {
				t.Errorf("description for %s = %q", info.Name, info.Description)
			}
		}
	}
	if strings.Join(names, ",") != "test-a,test-b" {
		t.Errorf("List() not sorted: %v", names)
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("nope", shapes.DefaultOptions(), nil); err == nil {
		t.Error("Create() should fail for unknown layout")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	registerStub("test-dup")

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register() should panic")
		}
	}()
	registerStub("test-dup")
}
