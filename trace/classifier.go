package trace

import (
	"fmt"
	"regexp"
	"strconv"
)

// Identity fragments. The flat fragment captures an empty group so both
// modes share capture indices.
const (
	groupedIdentity = `(\d+)-(\d+)`
	flatIdentity    = `()(\d+)`
	timePrefix      = `^(\d+(?:\.\d+)?) s:\tPeer /peer`
)

// grammar holds the three line patterns for one identity mode.
type grammar struct {
	init    *regexp.Regexp
	out     *regexp.Regexp
	receive *regexp.Regexp
}

func newGrammar(id string) grammar {
	return grammar{
		// Initialization lines may carry trailing text.
		init: regexp.MustCompile(timePrefix + id + `: ChronoSync Instance Initialized with (\d+) pending messages`),
		out:  regexp.MustCompile(timePrefix + id + `: Delayed Interest with id: (\d+)$`),
		receive: regexp.MustCompile(timePrefix + id + `: Data received from peer` + id +
			` : \[From node /peer` + id + `: (\d+)\]; total messages received: (\d+)$`),
	}
}

var grammars = map[IdentityMode]grammar{
	IdentityGrouped: newGrammar(groupedIdentity),
	IdentityFlat:    newGrammar(flatIdentity),
}

// Classify matches one trimmed, non-empty line against the grammars of mode,
// trying initialization, send and receive in that order. It has no side
// effects.
func Classify(line string, mode IdentityMode) (Event, error) {
	g, ok := grammars[mode]
	if !ok {
		return nil, fmt.Errorf("identity mode %q cannot classify lines", mode)
	}

	if m := g.init.FindStringSubmatch(line); m != nil {
		t, err := parseTime(m[1])
		if err != nil {
			return nil, &UnrecognizedLineError{Line: line, Err: err}
		}
		quota, err := strconv.Atoi(m[4])
		if err != nil {
			return nil, &UnrecognizedLineError{Line: line, Err: err}
		}
		return &InitEvent{time: t, Peer: PeerID{Group: m[2], Local: m[3]}, Quota: quota}, nil
	}

	if m := g.out.FindStringSubmatch(line); m != nil {
		t, err := parseTime(m[1])
		if err != nil {
			return nil, &UnrecognizedLineError{Line: line, Err: err}
		}
		return &SendEvent{time: t, Peer: PeerID{Group: m[2], Local: m[3]}, Content: m[4]}, nil
	}

	if m := g.receive.FindStringSubmatch(line); m != nil {
		t, err := parseTime(m[1])
		if err != nil {
			return nil, &UnrecognizedLineError{Line: line, Err: err}
		}
		reported, err := strconv.Atoi(m[9])
		if err != nil {
			return nil, &UnrecognizedLineError{Line: line, Err: err}
		}
		return &ReceiveEvent{
			time:     t,
			Peer:     PeerID{Group: m[2], Local: m[3]},
			Gateway:  PeerID{Group: m[4], Local: m[5]},
			Source:   PeerID{Group: m[6], Local: m[7]},
			Content:  m[8],
			Reported: reported,
		}, nil
	}

	return nil, &UnrecognizedLineError{Line: line}
}

// DetectIdentityMode reports which identity mode line is written in.
// Grouped grammars are tried first.
func DetectIdentityMode(line string) (IdentityMode, error) {
	for _, mode := range []IdentityMode{IdentityGrouped, IdentityFlat} {
		g := grammars[mode]
		if g.init.MatchString(line) || g.out.MatchString(line) || g.receive.MatchString(line) {
			return mode, nil
		}
	}
	return "", &UnrecognizedLineError{Line: line}
}

func parseTime(s string) (float64, error) {
	t, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
