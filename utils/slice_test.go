package utils

import (
	"reflect"
	"testing"
)

func TestFilter(t *testing.T) {
	got := Filter([]int{1, 2, 3, 4, 5}, func(n int) bool { return n%2 == 0 })
	want := []int{2, 4}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Filter returned %v, want %v", got, want)
	}
}

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, func(n int) int { return n * 10 })
	want := []int{10, 20, 30}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Map returned %v, want %v", got, want)
	}
}

func TestFind(t *testing.T) {
	items := []string{"alpha", "beta", "gamma"}

	got := Find(items, func(s string) bool { return s == "beta" })
	if got == nil || *got != "beta" {
		t.Errorf("Find returned %v, want beta", got)
	}

	missing := Find(items, func(s string) bool { return s == "delta" })
	if missing != nil {
		t.Errorf("Find returned %v for a missing item, want nil", missing)
	}
}

func TestGroupBy(t *testing.T) {
	got := GroupBy([]int{1, 2, 3, 4, 5}, func(n int) int { return n % 2 })
	want := map[int][]int{
		0: {2, 4},
		1: {1, 3, 5},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("GroupBy returned %v, want %v", got, want)
	}
}
