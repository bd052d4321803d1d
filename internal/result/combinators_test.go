package result_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitactdash/internal/result"
)

func TestMap(t *testing.T) {
	called := false
	double := func(v int) int {
		called = true
		return v * 2
	}

	r := result.Map(result.Success(4), double)
	assert.True(t, r.IsSuccess())
	assert.Equal(t, 8, r.ValueOrDefault(0))

	r = result.Map(result.Warning(4, "w"), double)
	assert.True(t, r.IsWarning())
	assert.Equal(t, 8, r.ValueOrDefault(0))
	msg, _ := r.Message()
	assert.Equal(t, "w", msg)

	called = false
	r = result.Map(result.Failure[int]("x"), double)
	assert.False(t, called, "map must not run on a failure")
	assert.True(t, r.IsFailure())
	msg, _ = r.Message()
	assert.Equal(t, "x", msg)
}

func TestMapChangesType(t *testing.T) {
	r := result.Map(result.Success(12), strconv.Itoa)
	assert.Equal(t, "12", r.ValueOrDefault(""))
}

func TestBind(t *testing.T) {
	succeed := func(v int) result.Result[string] { return result.Success(strconv.Itoa(v)) }
	warn := func(v int) result.Result[string] { return result.Warning(strconv.Itoa(v), "inner") }
	fail := func(int) result.Result[string] { return result.Failure[string]("inner failure") }

	tests := []struct {
		name        string
		start       result.Result[int]
		next        func(int) result.Result[string]
		wantStatus  result.Status
		wantValue   string
		wantMessage string
	}{
		{"success then success", result.Success(1), succeed, result.StatusSuccess, "1", ""},
		{"success then warning", result.Success(1), warn, result.StatusWarning, "1", "inner"},
		{"success then failure", result.Success(1), fail, result.StatusFailure, "", "inner failure"},
		{"warning then success", result.Warning(2, "outer"), succeed, result.StatusWarning, "2", "outer"},
		{"warning then warning", result.Warning(2, "outer"), warn, result.StatusWarning, "2", "outer\ninner"},
		{"warning then failure", result.Warning(2, "outer"), fail, result.StatusFailure, "", "inner failure"},
		{"failure short circuits", result.Failure[int]("outer failure"), succeed, result.StatusFailure, "", "outer failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := result.Bind(tt.start, tt.next)

			assert.Equal(t, tt.wantStatus, got.Status())
			assert.Equal(t, tt.wantValue, got.ValueOrDefault(""))
			msg, _ := got.Message()
			assert.Equal(t, tt.wantMessage, msg)
		})
	}
}

func TestBindDoesNotCallOnFailure(t *testing.T) {
	called := false
	result.Bind(result.Failure[int]("stop"), func(int) result.Result[int] {
		called = true
		return result.Success(0)
	})
	assert.False(t, called)
}

func TestBindSuccessReturnsInnerExactly(t *testing.T) {
	inner := result.Warning("v", "a", "b")
	got := result.Bind(result.Success(0), func(int) result.Result[string] { return inner })
	assert.Equal(t, inner, got)
}

func TestTaps(t *testing.T) {
	var seen []string
	record := func(tag string) func(string) {
		return func(s string) { seen = append(seen, tag+":"+s) }
	}
	recordValue := func(tag string) func(int) {
		return func(v int) { seen = append(seen, tag+":"+strconv.Itoa(v)) }
	}

	inputs := []result.Result[int]{
		result.Success(1),
		result.Warning(2, "w"),
		result.Failure[int]("f"),
	}

	for _, in := range inputs {
		out := result.OnSuccess(in, recordValue("success"))
		out = result.OnValue(out, recordValue("value"))
		out = result.OnWarning(out, record("warning"))
		out = result.OnFailure(out, record("failure"))
		assert.Equal(t, in, out, "taps must return the input unchanged")
	}

	assert.Equal(t, []string{
		"success:1", "value:1",
		"value:2", "warning:w",
		"failure:f",
	}, seen)
}
