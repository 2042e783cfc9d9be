package types

import (
	"encoding/json"
	"testing"
)

func TestHeadingLevelOrder(t *testing.T) {
	if !(H1 < H2 && H2 < H3) {
		t.Fatalf("expected H1 < H2 < H3, got %d %d %d", H1, H2, H3)
	}
}

func TestHeadingLevelJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Level HeadingLevel `json:"level"`
	}{Level: H2})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"level":"H2"}` {
		t.Fatalf("unexpected JSON: %s", data)
	}

	var decoded struct {
		Level HeadingLevel `json:"level"`
	}
	if err := json.Unmarshal([]byte(`{"level":"H3"}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Level != H3 {
		t.Fatalf("expected H3, got %v", decoded.Level)
	}

	if err := json.Unmarshal([]byte(`{"level":"H9"}`), &decoded); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
