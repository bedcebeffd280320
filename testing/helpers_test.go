package testing

import (
	stdtesting "testing"

	"github.com/codeblanche/entitymarshal"
)

func TestRegisterFixtures(t *stdtesting.T) {
	reg := entitymarshal.NewRegistry()
	if err := RegisterFixtures(reg); err != nil {
		t.Fatalf("RegisterFixtures() error: %v", err)
	}

	for _, class := range []string{
		"ObjectProperty",
		"PropertyEntity",
		"DynamicEntity",
		"GracefulEntity",
	} {
		if !reg.Defined(class) {
			t.Errorf("class %s should be defined", class)
		}
		if _, err := reg.New(class); err != nil {
			t.Errorf("New(%s) error: %v", class, err)
		}
	}
}

func TestRegisterFixtures_Duplicate(t *stdtesting.T) {
	reg := entitymarshal.NewRegistry()
	if err := RegisterFixtures(reg); err != nil {
		t.Fatalf("RegisterFixtures() error: %v", err)
	}
	if err := RegisterFixtures(reg); err == nil {
		t.Error("RegisterFixtures() should fail when fixtures are already defined")
	}
}
