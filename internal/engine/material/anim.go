package material

import "time"

// FrameRate is the texture animation speed in frames per second.
const FrameRate = 10

// FrameAt converts elapsed clock time into an animation frame index.
func FrameAt(elapsed time.Duration) int {
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / (time.Second / FrameRate))
}

// ParseAnimName splits an animated texture name such as "+0slime" or
// "+aexit". Digits select the primary cycle, letters the alternate one.
func ParseAnimName(name string) (base string, frame int, alternate bool, ok bool) {
	if len(name) < 3 || name[0] != '+' {
		return name, 0, false, false
	}
	c := name[1]
	switch {
	case c >= '0' && c <= '9':
		return name[2:], int(c - '0'), false, true
	case c >= 'a' && c <= 'z':
		return name[2:], int(c - 'a'), true, true
	case c >= 'A' && c <= 'Z':
		return name[2:], int(c - 'A'), true, true
	}
	return name, 0, false, false
}
