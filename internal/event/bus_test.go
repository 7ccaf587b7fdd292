package event

import "testing"

func TestBusPublishOrder(t *testing.T) {
	bus := NewBus()
	var order []string

	bus.SubscribePriority(func(Event) { order = append(order, "low") }, PriorityLow)
	bus.Subscribe(func(Event) { order = append(order, "normal-1") })
	bus.SubscribePriority(func(Event) { order = append(order, "high") }, PriorityHigh)
	bus.Subscribe(func(Event) { order = append(order, "normal-2") })

	bus.Publish(New(TypeTextChanged, 1, 0))

	want := []string{"high", "normal-1", "normal-2", "low"}
	if len(order) != len(want) {
		t.Fatalf("got %d deliveries, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestBusCancel(t *testing.T) {
	bus := NewBus()
	count := 0
	sub := bus.Subscribe(func(Event) { count++ })

	bus.Publish(New(TypeCursorMoved, 0, 3))
	sub.Cancel()
	sub.Cancel()
	bus.Publish(New(TypeCursorMoved, 0, 4))

	if count != 1 {
		t.Errorf("handler called %d times, want 1", count)
	}
	if sub.IsActive() {
		t.Error("cancelled subscription should not be active")
	}
	if bus.Len() != 0 {
		t.Errorf("Len() = %d, want 0", bus.Len())
	}
}

func TestBusCancelDuringPublish(t *testing.T) {
	bus := NewBus()
	var second Subscription
	called := false

	bus.SubscribePriority(func(Event) { second.Cancel() }, PriorityHigh)
	second = bus.Subscribe(func(Event) { called = true })

	bus.Publish(New(TypeScrolled, 0, 0))

	if called {
		t.Error("handler cancelled earlier in the same publish should be skipped")
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TypeTextChanged, "text-changed"},
		{TypeCursorMoved, "cursor-moved"},
		{TypeScrolled, "scrolled"},
		{TypeResized, "resized"},
		{TypeDocumentReset, "document-reset"},
		{Type(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}

	if !TypeScrolled.Geometric() || !TypeResized.Geometric() || TypeTextChanged.Geometric() {
		t.Error("Geometric() misclassifies event types")
	}
}
