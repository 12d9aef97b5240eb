package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/brushgl/internal/engine/brush"
)

type styleOverride struct {
	style int
	value int
}

// styleFlag collects repeated -style index=value flags.
type styleFlag []styleOverride

func (f *styleFlag) String() string {
	parts := make([]string, len(*f))
	for i, o := range *f {
		parts[i] = fmt.Sprintf("%d=%d", o.style, o.value)
	}
	return strings.Join(parts, ",")
}

func (f *styleFlag) Set(v string) error {
	idx, val, ok := strings.Cut(v, "=")
	if !ok {
		return fmt.Errorf("expected style=value, got %q", v)
	}
	style, err := strconv.Atoi(idx)
	if err != nil || style < 0 || style >= brush.StyleNone {
		return fmt.Errorf("bad light style %q", idx)
	}
	value, err := strconv.Atoi(val)
	if err != nil || value < 0 {
		return fmt.Errorf("bad light value %q", val)
	}
	*f = append(*f, styleOverride{style: style, value: value})
	return nil
}
