package navigation

import "testing"

func TestNavigation(t *testing.T) {
	s := NewState()

	steps := []struct {
		forward bool
		want    ViewState
	}{
		{false, SectionView},
		{true, ItemView},
		{true, PlayerView},
		{true, PlayerView},
		{false, ItemView},
		{false, SectionView},
	}

	for i, step := range steps {
		if step.forward {
			s.NavigateForward()
		} else {
			s.NavigateBack()
		}
		if got := s.GetCurrentView(); got != step.want {
			t.Fatalf("step %d: view = %d, want %d", i, got, step.want)
		}
	}
}
