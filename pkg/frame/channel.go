package frame

import (
	"fmt"
	"strings"
)

// channelAlphabet is the canonical letter set backing every channel_order
// string: Red, Green, Blue, Warm white, Cool white, Amber. The usual
// spelling gives one distinct letter per physical channel (W for a single
// white, W+C for warm/cool pairs). Real fixture datasheets spell
// duplicate white channels both "W"; a repeated "W" is accepted too and
// mapped onto a spare letter, as described at dualWhiteLetter.
const channelAlphabet = "RGBWCA"

// dualWhiteLetter is the one letter real fixture datasheets repeat: a
// dual-white fixture's warm and cool channels are both spelled "W"
// (the "RGBWW", "RGBCWW" and "RGBWWC" formats). No other letter is
// legitimately repeated, so only "W" gets fallback treatment below;
// any other repeat (e.g. "RRG") is still a malformed order.
const dualWhiteLetter = 'W'

// BuildPermutation parses a channel_order string (e.g. "RGB", "GRB",
// "RGBW", "WRGB", "RGBWC") into an index permutation: output channel k
// reads input channel perm[k], where input channels are ordered R, G, B,
// [W], [C], [A] per the canonical alphabet above restricted to the
// letters present in order.
//
// "W"'s first occurrence binds to its own canonical slot; a second "W"
// claims the next unused letter of channelAlphabet instead, so the
// enumerated dual-white formats parse into a genuine distinct-channel
// permutation rather than being rejected or silently left unpermuted.
func BuildPermutation(order string) ([]int, error) {
	if order == "" {
		return nil, fmt.Errorf("frame: empty channel order")
	}

	firstOccurrence := make(map[byte]bool, len(order))
	reserved := make(map[byte]bool, len(order))
	duplicates := 0
	for i := 0; i < len(order); i++ {
		ch := order[i]
		if strings.IndexByte(channelAlphabet, ch) < 0 {
			return nil, fmt.Errorf("frame: channel order %q uses unknown channel %q", order, string(ch))
		}
		if firstOccurrence[ch] {
			if ch != dualWhiteLetter {
				return nil, fmt.Errorf("frame: channel order %q repeats channel %q", order, string(ch))
			}
			duplicates++
			continue
		}
		firstOccurrence[ch] = true
		reserved[ch] = true
	}

	canonical := make([]byte, 0, len(order))
	for i := 0; i < len(channelAlphabet); i++ {
		if ch := channelAlphabet[i]; reserved[ch] {
			canonical = append(canonical, ch)
		}
	}

	var padLetters []byte
	for i := 0; i < len(channelAlphabet) && duplicates > 0; i++ {
		ch := channelAlphabet[i]
		if reserved[ch] {
			continue
		}
		canonical = append(canonical, ch)
		padLetters = append(padLetters, ch)
		reserved[ch] = true
		duplicates--
	}
	if duplicates > 0 {
		return nil, fmt.Errorf("frame: channel order %q repeats a channel more times than the %q alphabet has room for", order, channelAlphabet)
	}

	seen := make(map[byte]bool, len(order))
	padIdx := 0
	perm := make([]int, len(order))
	for k := 0; k < len(order); k++ {
		ch := order[k]

		assignTo := ch
		if seen[ch] {
			assignTo = padLetters[padIdx]
			padIdx++
		}
		seen[ch] = true

		idx := indexByte(canonical, assignTo)
		if idx < 0 {
			return nil, fmt.Errorf("frame: channel order %q uses unknown channel %q", order, string(ch))
		}
		perm[k] = idx
	}
	return perm, nil
}

func indexByte(s []byte, c byte) int {
	for i, v := range s {
		if v == c {
			return i
		}
	}
	return -1
}

// Permute reorders channels according to perm: output[k] = channels[perm[k]].
func Permute(perm []int, channels []uint8) []uint8 {
	out := make([]uint8, len(perm))
	for k, idx := range perm {
		out[k] = channels[idx]
	}
	return out
}
