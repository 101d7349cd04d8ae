package claims

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedCodec() (*Codec, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return NewCodec(zap.New(core)), logs
}

func TestDecodeRoundTrip(t *testing.T) {
	c, _ := newObservedCodec()

	data, ok := c.Encode(Set{"foo": "bar", "n": 3})
	if !ok {
		t.Fatal("expected encode to succeed")
	}
	set, ok := c.Decode(data)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if set["foo"] != "bar" {
		t.Fatalf("expected foo=bar, got %v", set["foo"])
	}
	n, err := set.Int64("n")
	if err != nil || n != 3 {
		t.Fatalf("expected n=3, got %d (%v)", n, err)
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"null",
		"not json",
		`["array"]`,
		`"string"`,
		`{"a":1`,
		`{"a":1} {"b":2}`,
	}
	for _, in := range inputs {
		c, logs := newObservedCodec()
		set, ok := c.Decode([]byte(in))
		if ok || set != nil {
			t.Fatalf("input %q: expected rejection, got %v", in, set)
		}
		if logs.Len() != 1 {
			t.Fatalf("input %q: expected one diagnostic, got %d", in, logs.Len())
		}
	}
}

func TestDecodeDiagnosticIsTruncated(t *testing.T) {
	c, logs := newObservedCodec()
	in := `{"secret":"` + strings.Repeat("x", 500)
	if _, ok := c.Decode([]byte(in)); ok {
		t.Fatal("expected rejection")
	}

	entry := logs.All()[0]
	prefix, _ := entry.ContextMap()["prefix"].(string)
	if len(prefix) != diagnosticBytes {
		t.Fatalf("expected %d byte prefix, got %d", diagnosticBytes, len(prefix))
	}
}

type panickyValue struct{}

func (panickyValue) MarshalJSON() ([]byte, error) { panic("marshal exploded") }

func TestEncodeNeverPanics(t *testing.T) {
	cyclic := Set{}
	cyclic["self"] = cyclic

	cases := map[string]Set{
		"nil":     nil,
		"cycle":   cyclic,
		"channel": {"ch": make(chan int)},
		"func":    {"fn": func() {}},
		"nan":     {"n": math.NaN()},
		"panic":   {"p": panickyValue{}},
	}
	for name, set := range cases {
		c, logs := newObservedCodec()
		out, ok := c.Encode(set)
		if ok || out != nil {
			t.Fatalf("%s: expected encode failure", name)
		}
		if logs.Len() == 0 {
			t.Fatalf("%s: expected a diagnostic", name)
		}
	}
}

func TestSetPresentAndMissing(t *testing.T) {
	s := Set{
		"iat": json.Number("0"),
		"exp": json.Number("10"),
		"iss": "",
		"sub": "svc",
		"nil": nil,
		"f":   false,
	}
	missing := s.Missing(Mandatory...)
	want := []string{"iat", "iss", "aud"}
	if strings.Join(missing, ",") != strings.Join(want, ",") {
		t.Fatalf("expected missing %v, got %v", want, missing)
	}
	if s.Present("nil") || s.Present("f") {
		t.Fatal("null and false must count as missing")
	}
	if !s.Present("sub") {
		t.Fatal("expected sub to be present")
	}
	if !(Set{"iss": " "}).Present("iss") {
		t.Fatal("whitespace-only string must count as present")
	}
}

func TestSetInt64(t *testing.T) {
	s := Set{
		"num":   json.Number("1700000000"),
		"float": 12.0,
		"frac":  12.5,
		"str":   "12",
		"big":   json.Number("1e3"),
	}
	if v, err := s.Int64("num"); err != nil || v != 1700000000 {
		t.Fatalf("num: %d %v", v, err)
	}
	if v, err := s.Int64("float"); err != nil || v != 12 {
		t.Fatalf("float: %d %v", v, err)
	}
	if v, err := s.Int64("big"); err != nil || v != 1000 {
		t.Fatalf("big: %d %v", v, err)
	}
	for _, name := range []string{"frac", "str", "absent"} {
		if _, err := s.Int64(name); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestSetRegisteredView(t *testing.T) {
	s := Set{
		"iss": "issuer",
		"aud": "bob",
		"iat": json.Number("1700000000"),
		"exp": json.Number("1700000300"),
		"jti": "id-1",
	}
	rc, err := s.Registered()
	if err != nil {
		t.Fatalf("registered: %v", err)
	}
	if rc.Issuer != "issuer" || rc.ID != "id-1" {
		t.Fatalf("unexpected registered claims: %+v", rc)
	}
	if len(rc.Audience) != 1 || rc.Audience[0] != "bob" {
		t.Fatalf("unexpected audience: %v", rc.Audience)
	}
	if rc.ExpiresAt == nil || rc.ExpiresAt.Unix() != 1700000300 {
		t.Fatalf("unexpected exp: %v", rc.ExpiresAt)
	}
}

func TestCloneIsShallowCopy(t *testing.T) {
	orig := Set{"a": "1"}
	cp := orig.Clone()
	cp["a"] = "2"
	cp["b"] = "3"
	if orig["a"] != "1" || len(orig) != 1 {
		t.Fatalf("clone mutated original: %v", orig)
	}
	if Set(nil).Clone() != nil {
		t.Fatal("clone of nil must be nil")
	}
}
