package enc

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestHex(t *testing.T) {
	in := Hex{0x00, 0xf8, 0x40, 0x66}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"00f84066"` {
		t.Fatalf("unexpected encoding %s", data)
	}

	var out Hex
	err = json.Unmarshal(data, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(in, out) {
		t.Fatalf("decoded %x expected %x", out, in)
	}

	if err := json.Unmarshal([]byte(`""`), &out); err != nil || len(out) != 0 {
		t.Fatal("empty string should decode to empty slice", err)
	}
	if err := json.Unmarshal([]byte(`"0g"`), &out); err == nil {
		t.Fatal("expected error on invalid hex")
	}
}
