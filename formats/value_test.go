package formats

import (
	"reflect"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Integer(1), "integer"},
		{ByteString("x"), "string"},
		{List{}, "list"},
		{NewDictionary(nil), "dictionary"},
	}
	for _, tt := range tests {
		if got := tt.v.Kind().String(); got != tt.want {
			t.Errorf("%v.Kind() = %s, want %s", tt.v, got, tt.want)
		}
	}
}

func TestDictionaryAccessors(t *testing.T) {
	d := NewDictionary(map[string]Value{
		"b": Integer(2),
		"a": ByteString("one"),
		"c": List{Integer(3)},
	})

	if d.Len() != 3 {
		t.Errorf("Len = %d", d.Len())
	}
	if v, ok := d.Get("a"); !ok || v != ByteString("one") {
		t.Errorf("Get(a) = %v, %t", v, ok)
	}
	if _, ok := d.Get("missing"); ok {
		t.Errorf("Get(missing) reported a value")
	}

	entries := d.Entries()
	var keys []string
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b", "c"}) {
		t.Errorf("Entries order = %q", keys)
	}

	var seen []string
	d.Range(func(k string, _ Value) bool {
		seen = append(seen, k)
		return k != "b"
	})
	if !reflect.DeepEqual(seen, []string{"a", "b"}) {
		t.Errorf("Range did not stop: %q", seen)
	}

	// Keys hands out a copy
	k := d.Keys()
	k[0] = "zzz"
	if d.Keys()[0] != "a" {
		t.Errorf("Keys exposed internal state")
	}
}

func TestEqual(t *testing.T) {
	base := mustDecode(t, "d1:ali1ei2ee1:bi3ee")
	tests := []struct {
		other string
		want  bool
	}{
		{"d1:bi3e1:ali1ei2eee", true},
		{"d1:ali1ei2ee1:bi4ee", false},
		{"d1:ali1ee1:bi3ee", false},
		{"d1:ali1ei2ee1:ci3ee", false},
		{"d1:ali1ei2eee", false},
		{"li1ee", false},
	}
	for _, tt := range tests {
		if got := Equal(base, mustDecode(t, tt.other)); got != tt.want {
			t.Errorf("Equal(%v, %s) = %t", base, tt.other, got)
		}
	}
	if Equal(Integer(1), ByteString("1")) {
		t.Errorf("different kinds compared equal")
	}
}

func TestValueString(t *testing.T) {
	v := mustDecode(t, "d1:ali1e2:hie1:bi-3ee")
	want := `{"a": [1, "hi"], "b": -3}`
	if got := v.(Dictionary).String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestFromInterface(t *testing.T) {
	v, err := FromInterface(map[string]any{
		"n":    7,
		"list": []any{uint8(1), []byte("raw")},
		"tags": map[string]string{"k": "v"},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := mustDecode(t, "d4:listli1e3:rawe1:ni7e4:tagsd1:k1:vee")
	if !Equal(v, want) {
		t.Errorf("FromInterface = %v, want %v", v, want)
	}

	if _, err := FromInterface([]any{1.5}); err == nil {
		t.Errorf("floats are not bencode values")
	}
}
