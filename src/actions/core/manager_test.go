package core

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeModule struct {
	name string
	fail error
	log  *[]string
}

func (f fakeModule) Name() string { return f.name }

func (f fakeModule) Start(ctx context.Context) error {
	if f.fail != nil {
		return f.fail
	}
	*f.log = append(*f.log, "start "+f.name)
	return nil
}

func (f fakeModule) Stop(ctx context.Context) {
	*f.log = append(*f.log, "stop "+f.name)
}

func TestManagerStopsInReverseOrder(t *testing.T) {
	var events []string
	m := NewManager(
		fakeModule{name: "workflow", log: &events},
		nil,
		fakeModule{name: "legislature", log: &events},
	)
	if err := m.Add(fakeModule{name: "api", log: &events}); err != nil {
		t.Fatalf("add: %v", err)
	}
	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := m.Running(); !reflect.DeepEqual(got, []string{"workflow", "legislature", "api"}) {
		t.Errorf("unexpected running modules %v", got)
	}
	if err := m.Add(fakeModule{name: "late", log: &events}); err == nil {
		t.Error("expected add after start to be rejected")
	}
	if err := m.Start(ctx); err == nil {
		t.Error("expected a second start to be rejected")
	}

	m.Stop(ctx)
	m.Stop(ctx)

	want := []string{
		"start workflow", "start legislature", "start api",
		"stop api", "stop legislature", "stop workflow",
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("expected %v, got %v", want, events)
	}
	if len(m.Running()) != 0 {
		t.Errorf("nothing should be running after stop")
	}
}

func TestManagerRollsBackFailedStart(t *testing.T) {
	var events []string
	boom := errors.New("port in use")
	m := NewManager(
		fakeModule{name: "workflow", log: &events},
		fakeModule{name: "legislature", log: &events},
		fakeModule{name: "api", fail: boom, log: &events},
		fakeModule{name: "never", log: &events},
	)
	ctx := context.Background()

	err := m.Start(ctx)
	if !errors.Is(err, boom) {
		t.Fatalf("expected the module error to be wrapped, got %v", err)
	}
	want := []string{"start workflow", "start legislature", "stop legislature", "stop workflow"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("expected %v, got %v", want, events)
	}

	// The failed module and the one after it were never started.
	events = nil
	m.Stop(ctx)
	if len(events) != 0 {
		t.Errorf("stop after a failed start must not stop anything, got %v", events)
	}
	if err := m.Add(fakeModule{name: "retry", log: &events}); err != nil {
		t.Errorf("an idle manager should accept modules, got %v", err)
	}
}
