package khaos

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/khaosmonkey/khaos-monkey/pkg/testutils/kubernetes/builders"

	corev1 "k8s.io/api/core/v1"
)

func buildPods(n int) []corev1.Pod {
	pods := []corev1.Pod{}
	for i := 1; i <= n; i++ {
		pods = append(pods, builders.NewPodBuilder(fmt.Sprintf("pod-%d", i)).Build())
	}
	return pods
}

func Test_ParseModeKind(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"fixed", "fixed-left", "percentage"} {
		kind, err := ParseModeKind(name)
		if err != nil {
			t.Errorf("unexpected error parsing %q: %v", name, err)
		}
		if string(kind) != name {
			t.Errorf("expected %q got %q", name, kind)
		}
	}

	if _, err := ParseModeKind("all"); err == nil {
		t.Errorf("expected an error parsing unknown mode")
	}
}

func Test_ModeValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		mode        Mode
		expectError bool
	}{
		{mode: Mode{Kind: Fixed, Value: 1}},
		{mode: Mode{Kind: FixedLeft, Value: 0}},
		{mode: Mode{Kind: Percentage, Value: 150}},
		{mode: Mode{Kind: Percentage, Value: -1}, expectError: true},
		{mode: Mode{Kind: "random", Value: 1}, expectError: true},
	}

	for _, tc := range testCases {
		err := tc.mode.Validate()
		if tc.expectError != (err != nil) {
			t.Errorf("%s: expected error %t got %v", tc.mode, tc.expectError, err)
		}
	}
}

func Test_VictimCount(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		title     string
		mode      Mode
		groupSize int
		expected  int
	}{
		{title: "fixed", mode: Mode{Kind: Fixed, Value: 2}, groupSize: 5, expected: 2},
		{title: "fixed above group size", mode: Mode{Kind: Fixed, Value: 10}, groupSize: 3, expected: 3},
		{title: "fixed zero", mode: Mode{Kind: Fixed, Value: 0}, groupSize: 3, expected: 0},
		{title: "percentage 50 of 4", mode: Mode{Kind: Percentage, Value: 50}, groupSize: 4, expected: 2},
		{title: "percentage rounds down", mode: Mode{Kind: Percentage, Value: 50}, groupSize: 3, expected: 1},
		{title: "percentage 0", mode: Mode{Kind: Percentage, Value: 0}, groupSize: 7, expected: 0},
		{title: "percentage 100", mode: Mode{Kind: Percentage, Value: 100}, groupSize: 7, expected: 7},
		{title: "percentage above 100", mode: Mode{Kind: Percentage, Value: 250}, groupSize: 7, expected: 7},
		{title: "huge percentage", mode: Mode{Kind: Percentage, Value: math.MaxInt}, groupSize: 7, expected: 7},
		{title: "huge fixed", mode: Mode{Kind: Fixed, Value: math.MaxInt}, groupSize: 7, expected: 7},
		{title: "percentage multiplies first", mode: Mode{Kind: Percentage, Value: 33}, groupSize: 3, expected: 0},
		{title: "percentage exact", mode: Mode{Kind: Percentage, Value: 10}, groupSize: 30, expected: 3},
		{title: "fixed left", mode: Mode{Kind: FixedLeft, Value: 2}, groupSize: 5, expected: 3},
		{title: "fixed left equal to group size", mode: Mode{Kind: FixedLeft, Value: 3}, groupSize: 3, expected: 0},
		{title: "fixed left above group size", mode: Mode{Kind: FixedLeft, Value: 5}, groupSize: 3, expected: 0},
		{title: "empty group", mode: Mode{Kind: Fixed, Value: 1}, groupSize: 0, expected: 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.title, func(t *testing.T) {
			t.Parallel()

			count := VictimCount(tc.mode, tc.groupSize, false, rand.New(rand.NewSource(1)))
			if count != tc.expected {
				t.Errorf("expected %d got %d", tc.expected, count)
			}
		})
	}
}

func Test_VictimCountPercentageFloor(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	for size := 0; size <= 50; size++ {
		for p := 0; p <= 100; p++ {
			count := VictimCount(Mode{Kind: Percentage, Value: p}, size, false, rng)
			if expected := size * p / 100; count != expected {
				t.Fatalf("size %d percentage %d: expected %d got %d", size, p, expected, count)
			}
		}
	}
}

func Test_VictimCountRandomized(t *testing.T) {
	t.Parallel()

	modes := []Mode{
		{Kind: Fixed, Value: 4},
		{Kind: Fixed, Value: 20},
		{Kind: Percentage, Value: 75},
		{Kind: FixedLeft, Value: 1},
	}

	rng := rand.New(rand.NewSource(42))
	for _, mode := range modes {
		raw := VictimCount(mode, 8, false, rng)
		seen := map[int]bool{}
		for i := 0; i < 1000; i++ {
			count := VictimCount(mode, 8, true, rng)
			if count < 0 || count > raw {
				t.Fatalf("%s: randomized count %d out of [0, %d]", mode, count, raw)
			}
			if raw > 0 && count == raw && mode.RawCount(8) == float64(raw) {
				t.Fatalf("%s: randomized count reached the raw count %d", mode, raw)
			}
			seen[count] = true
		}
		if raw > 1 && len(seen) < 2 {
			t.Errorf("%s: randomized count does not vary: %v", mode, seen)
		}
	}
}

func Test_SelectVictims(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		title     string
		mode      Mode
		groupSize int
		randomize bool
		expected  int
	}{
		{title: "percentage 50 of 4", mode: Mode{Kind: Percentage, Value: 50}, groupSize: 4, expected: 2},
		{title: "fixed above group size", mode: Mode{Kind: Fixed, Value: 10}, groupSize: 3, expected: 3},
		{title: "fixed left above group size", mode: Mode{Kind: FixedLeft, Value: 5}, groupSize: 3, expected: 0},
		{title: "all pods", mode: Mode{Kind: Percentage, Value: 100}, groupSize: 6, expected: 6},
		{title: "randomized", mode: Mode{Kind: Fixed, Value: 10}, groupSize: 10, randomize: true, expected: -1},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.title, func(t *testing.T) {
			t.Parallel()

			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 100; i++ {
				pods := buildPods(tc.groupSize)
				victims := SelectVictims(tc.mode, pods, tc.randomize, rng)

				if tc.expected >= 0 && len(victims) != tc.expected {
					t.Fatalf("expected %d victims got %d", tc.expected, len(victims))
				}
				if len(victims) > len(pods) {
					t.Fatalf("selected %d victims out of %d pods", len(victims), len(pods))
				}

				seen := map[string]bool{}
				for _, v := range victims {
					if seen[v.Name] {
						t.Fatalf("pod %s selected twice", v.Name)
					}
					seen[v.Name] = true
				}

				for j, p := range pods {
					if p.Name != fmt.Sprintf("pod-%d", j+1) {
						t.Fatalf("input pods were reordered")
					}
				}
			}
		})
	}
}

func Test_SelectVictimsUniform(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	pods := buildPods(4)
	mode := Mode{Kind: Fixed, Value: 1}

	const rounds = 4000
	hits := map[string]int{}
	for i := 0; i < rounds; i++ {
		victims := SelectVictims(mode, pods, false, rng)
		hits[victims[0].Name]++
	}

	for _, p := range pods {
		// expected 1000 hits per pod
		if hits[p.Name] < 850 || hits[p.Name] > 1150 {
			t.Errorf("pod %s selected %d times out of %d", p.Name, hits[p.Name], rounds)
		}
	}
}

func Test_Plan(t *testing.T) {
	t.Parallel()

	group := Group{Key: "pod-template-hash=web", Pods: buildPods(4)}
	plan := Plan(group, Mode{Kind: Percentage, Value: 50}, false, rand.New(rand.NewSource(1)))

	if plan.Group != group.Key {
		t.Errorf("expected group %q got %q", group.Key, plan.Group)
	}
	if plan.Eligible != 4 {
		t.Errorf("expected 4 eligible pods got %d", plan.Eligible)
	}
	if len(plan.Victims) != 2 {
		t.Errorf("expected 2 victims got %d", len(plan.Victims))
	}
}
