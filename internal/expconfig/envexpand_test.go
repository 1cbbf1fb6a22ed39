package expconfig

import "testing"

func TestExpandEnv_SetVar(t *testing.T) {
	t.Setenv("TEST_VAR", "hello")

	got := ExpandEnv("value: ${TEST_VAR}")
	want := "value: hello"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandEnv_UnsetVar(t *testing.T) {
	got := ExpandEnv("value: ${UNSET_VAR_12345}")
	want := "value: "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandEnv_DefaultUsedWhenUnset(t *testing.T) {
	got := ExpandEnv("value: ${UNSET_VAR_12345:-fallback}")
	want := "value: fallback"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandEnv_DefaultIgnoredWhenSet(t *testing.T) {
	t.Setenv("TEST_VAR", "real")

	got := ExpandEnv("value: ${TEST_VAR:-fallback}")
	want := "value: real"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandEnv_DefaultUsedWhenEmpty(t *testing.T) {
	t.Setenv("TEST_VAR", "")

	got := ExpandEnv("value: ${TEST_VAR:-fallback}")
	want := "value: fallback"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandEnv_DollarWithoutBraces(t *testing.T) {
	t.Setenv("SOME_VAR", "value")

	// $VAR (no braces) must not be expanded — only ${VAR} is supported.
	got := ExpandEnv("path: $SOME_VAR/suffix")
	want := "path: $SOME_VAR/suffix"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandEnv_NestedInYAML(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	input := `adapter:
  type: redis
  url: ${REDIS_URL}`

	got := ExpandEnv(input)
	want := `adapter:
  type: redis
  url: redis://localhost:6379`

	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
