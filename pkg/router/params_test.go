package router

import (
	"reflect"
	"testing"

	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/pathmatch"
)

func TestBindParams(t *testing.T) {
	type params struct {
		Name  string   `param:"name"`
		ID    int      `param:"id"`
		Big   int64    `param:"big"`
		Count uint     `param:"count"`
		Ratio float64  `param:"ratio"`
		Draft bool     `param:"draft"`
		Path  []string `param:"path"`
		Skip  string
	}

	m := &pathmatch.Match{
		Path: "/x",
		Params: map[string]string{
			"name":  "hello%20world",
			"id":    "123",
			"big":   "9223372036854775807",
			"count": "42",
			"ratio": "0.5",
			"draft": "true",
			"path":  "a/b/c",
		},
	}

	var got params
	if err := BindParams(m, &got); err != nil {
		t.Fatalf("BindParams() error = %v", err)
	}

	want := params{
		Name:  "hello world",
		ID:    123,
		Big:   9223372036854775807,
		Count: 42,
		Ratio: 0.5,
		Draft: true,
		Path:  []string{"a", "b", "c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BindParams() = %+v, want %+v", got, want)
	}
}

func TestBindParams_MissingKeepsValue(t *testing.T) {
	var p struct {
		ID int `param:"id"`
	}
	p.ID = 7
	if err := BindParams(&pathmatch.Match{Params: map[string]string{}}, &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != 7 {
		t.Errorf("ID = %d, want 7", p.ID)
	}
	if err := BindParams(nil, &p); err != nil {
		t.Errorf("BindParams(nil) error = %v", err)
	}
}

func TestBindParams_Errors(t *testing.T) {
	type ints struct {
		ID int8 `param:"id"`
	}
	tests := []struct {
		name   string
		target any
		params map[string]string
	}{
		{name: "not a pointer", target: ints{}},
		{name: "nil pointer", target: (*ints)(nil)},
		{name: "pointer to non-struct", target: new(int)},
		{name: "invalid integer", target: &ints{}, params: map[string]string{"id": "abc"}},
		{name: "overflow", target: &ints{}, params: map[string]string{"id": "300"}},
		{name: "unsupported slice", target: &struct {
			IDs []int `param:"ids"`
		}{}, params: map[string]string{"ids": "1/2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := BindParams(&pathmatch.Match{Params: tt.params}, tt.target)
			if !errors.HasCode(err, "R013") {
				t.Errorf("BindParams() error = %v, want R013", err)
			}
		})
	}
}
