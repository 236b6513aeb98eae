package registry

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/microware/internal/microgame"
)

type fakeGame struct {
	microgame.Base
	prompt   string
	duration time.Duration
}

func (g fakeGame) Prompt() string             { return g.prompt }
func (g fakeGame) Duration() time.Duration    { return g.duration }
func (g fakeGame) Setup(*microgame.Round)     {}
func (g fakeGame) WireInput(*microgame.Round) {}

func factory(prompt string, d time.Duration) Factory {
	return func() microgame.Microgame { return fakeGame{prompt: prompt, duration: d} }
}

func desc(key, prompt string, d time.Duration) Descriptor {
	return Descriptor{Key: key, Prompt: prompt, Duration: d}
}

func TestRegisterRejections(t *testing.T) {
	tests := []struct {
		name    string
		d       Descriptor
		f       Factory
		wantErr error
	}{
		{"empty key", desc(" ", "GO!", 3*time.Second), factory("GO!", 3*time.Second), ErrInvalidDescriptor},
		{"empty prompt", desc("go", "", 3*time.Second), factory("", 3*time.Second), ErrInvalidDescriptor},
		{"nil constructor", desc("go", "GO!", 3*time.Second), nil, ErrInvalidDescriptor},
		{"duplicate key", desc("catch", "OTHER!", 3*time.Second), factory("OTHER!", 3*time.Second), ErrDuplicateKey},
		{"duplicate prompt", desc("other", "CATCH!", 3*time.Second), factory("CATCH!", 3*time.Second), ErrDuplicatePrompt},
		{"padded duplicate prompt", desc("other", " CATCH! ", 3*time.Second), factory("CATCH!", 3*time.Second), ErrDuplicatePrompt},
		{"blank prompt", desc("go", "   ", 3*time.Second), factory("", 3*time.Second), ErrInvalidDescriptor},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCatalog()
			if err := c.Register(desc("catch", "CATCH!", 5*time.Second), factory("CATCH!", 5*time.Second)); err != nil {
				t.Fatalf("seed registration: %v", err)
			}

			err := c.Register(tc.d, tc.f)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Register() = %v, expected %v", err, tc.wantErr)
			}
			if c.Len() != 1 {
				t.Errorf("failed registration changed the catalog: Len() = %d", c.Len())
			}
			if tc.d.Key == "other" && c.Exists("other") {
				t.Error("descriptor stored without its constructor")
			}
		})
	}
}

func TestListSortedAndResolve(t *testing.T) {
	c := NewCatalog()
	for _, k := range []string{"type", "catch", "dodge"} {
		p := strings.ToUpper(k) + "!"
		if err := c.Register(desc(k, p, 4*time.Second), factory(p, 4*time.Second)); err != nil {
			t.Fatal(err)
		}
	}

	list := c.List()
	if len(list) != 3 || list[0].Key != "catch" || list[2].Key != "type" {
		t.Errorf("List() = %+v", list)
	}
	if list[0].Name != "catch" {
		t.Errorf("Name should default to the key, got %q", list[0].Name)
	}

	f, err := c.Resolve("dodge")
	if err != nil {
		t.Fatalf("Resolve(dodge) error: %v", err)
	}
	if f().Prompt() != "DODGE!" {
		t.Errorf("resolved prompt = %q", f().Prompt())
	}

	if _, err := c.Resolve("nope"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Resolve(nope) = %v, expected ErrUnknownKey", err)
	}
}

func TestConcurrentRegistration(t *testing.T) {
	c := NewCatalog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a'+i%26)) + strings.Repeat("x", i/26)
			_ = c.Register(desc(key, key+"!", 3*time.Second), factory(key+"!", 3*time.Second))
			_ = c.List()
		}(i)
	}
	wg.Wait()

	if c.Len() != 50 {
		t.Errorf("Len() = %d, expected 50", c.Len())
	}
}

func TestCheck(t *testing.T) {
	c := NewCatalog()
	_ = c.Register(desc("ok", "OK!", 4*time.Second), factory("OK!", 4*time.Second))
	_ = c.Register(desc("short", "SHORT!", time.Second), factory("SHORT!", time.Second))
	_ = c.Register(desc("liar", "LIAR!", 3*time.Second), factory("TRUTH!", 5*time.Second))

	issues := c.Check(DefaultBand)

	var got []string
	for _, is := range issues {
		got = append(got, is.Key+"/"+is.Severity.String())
	}
	want := []string{"liar/error", "liar/error", "short/warning"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Check() = %v, expected %v", got, want)
	}
}

func TestBandInclusive(t *testing.T) {
	if !DefaultBand.Contains(2*time.Second) || !DefaultBand.Contains(7*time.Second) {
		t.Error("band bounds should be inclusive")
	}
	if DefaultBand.Contains(7*time.Second + time.Millisecond) {
		t.Error("7.001s should be out of band")
	}
}

func TestRegisterPanicsOnDuplicate(t *testing.T) {
	saved := Default
	Default = NewCatalog()
	defer func() { Default = saved }()

	Register(desc("one", "ONE!", 3*time.Second), factory("ONE!", 3*time.Second))
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register(desc("one", "TWO!", 3*time.Second), factory("TWO!", 3*time.Second))
}
