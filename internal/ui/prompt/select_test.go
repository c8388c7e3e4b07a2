package prompt

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

var testOptions = []Option{
	{Title: "Commit changes", Description: "git add -A && git commit"},
	{Title: "Stash changes", Description: "git stash push -u"},
}

func TestSelectModel_Update(t *testing.T) {
	t.Parallel()

	t.Run("enter picks first option", func(t *testing.T) {
		t.Parallel()
		m := newSelectModel("Pick a fix", testOptions)
		updated, cmd := m.Update(keyPress("enter"))
		um := updated.(selectModel)
		if !um.done || um.cancelled || um.selected != 0 {
			t.Errorf("done=%v cancelled=%v selected=%d, want first option", um.done, um.cancelled, um.selected)
		}
		if cmd == nil {
			t.Error("enter should quit")
		}
	})

	t.Run("cursor down then enter", func(t *testing.T) {
		t.Parallel()
		var model tea.Model = newSelectModel("Pick a fix", testOptions)
		model, _ = model.Update(tea.KeyPressMsg{Code: tea.KeyDown})
		model, _ = model.Update(keyPress("enter"))
		if got := model.(selectModel).selected; got != 1 {
			t.Errorf("selected = %d, want 1", got)
		}
	})

	for _, key := range []string{"esc", "q", "ctrl+c"} {
		t.Run(key+" cancels", func(t *testing.T) {
			t.Parallel()
			updated, _ := newSelectModel("Pick a fix", testOptions).Update(keyPress(key))
			if um := updated.(selectModel); !um.cancelled || !um.done {
				t.Errorf("cancelled=%v done=%v, want both", um.cancelled, um.done)
			}
		})
	}
}

func TestSelectModel_View(t *testing.T) {
	t.Parallel()

	m := newSelectModel("Pick a fix", testOptions)
	if m.View().Content == "" {
		t.Error("View() should render the list")
	}
	m.done = true
	if m.View().Content != "" {
		t.Error("View() should be empty once done")
	}
}

func TestSelect_NoOptions(t *testing.T) {
	t.Parallel()

	res, err := Select("Pick", nil)
	if err != nil || !res.Cancelled {
		t.Errorf("Select(nil) = %+v, %v, want cancelled", res, err)
	}
}
