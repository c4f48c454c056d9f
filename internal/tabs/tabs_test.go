// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tabs

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paperwiz/pkg/types"
)

func TestNewControllerHasNoTabs(t *testing.T) {
	c := New()
	s := c.State()
	assert.Empty(t, s.Visible)
	assert.False(t, s.HasActive)

	bar, content := c.Render()
	assert.Empty(t, bar)
	assert.Empty(t, content)
}

func TestActivateAppendsInFirstActivationOrder(t *testing.T) {
	c := New()
	c.Activate(types.ViewBibTeX, "bib")
	c.Activate(types.ViewSummary, "sum")
	s := c.Activate(types.ViewBibTeX, "bib again")

	assert.Equal(t, []types.ViewKind{types.ViewBibTeX, types.ViewSummary}, s.Visible)
	assert.Equal(t, types.ViewBibTeX, s.Active)
	assert.Equal(t, "bib again", s.Content[types.ViewBibTeX])
	assert.Equal(t, "sum", s.Content[types.ViewSummary])
}

func TestSwitchToInvisibleIsNoOp(t *testing.T) {
	c := New()
	c.Activate(types.ViewCitations, "cites")
	s := c.Switch(types.ViewCompare)

	assert.Equal(t, types.ViewCitations, s.Active)
	assert.Equal(t, []types.ViewKind{types.ViewCitations}, s.Visible)
}

func TestSwitchBeforeActivationStaysEmpty(t *testing.T) {
	c := New()
	s := c.Switch(types.ViewSummary)
	assert.False(t, s.HasActive)
	assert.Empty(t, s.Visible)
}

func TestSwitchKeepsContent(t *testing.T) {
	c := New()
	c.Activate(types.ViewCitations, "cites")
	c.Activate(types.ViewBibTeX, "bib")
	s := c.Switch(types.ViewCitations)

	assert.Equal(t, types.ViewCitations, s.Active)
	assert.Equal(t, "cites", s.ActiveContent())
	assert.Equal(t, "bib", s.Content[types.ViewBibTeX])
}

func TestActivateInvalidKindIgnored(t *testing.T) {
	c := New()
	s := c.Activate(types.NumViewKinds, "x")
	assert.Empty(t, s.Visible)
	assert.False(t, s.HasActive)
}

func TestSnapshotsDoNotAlias(t *testing.T) {
	c := New()
	first := c.Activate(types.ViewSummary, "a")
	first.Visible[0] = types.ViewCompare

	second := c.Activate(types.ViewCitations, "b")
	assert.Equal(t, []types.ViewKind{types.ViewSummary, types.ViewCitations}, second.Visible)
	assert.Len(t, first.Visible, 1, "earlier snapshot must not grow")
}

func TestNextPrevCycle(t *testing.T) {
	c := New()
	assert.Empty(t, c.Next().Visible)

	c.Activate(types.ViewSummary, "s")
	c.Activate(types.ViewCitations, "c")
	c.Activate(types.ViewBibTeX, "b")

	assert.Equal(t, types.ViewSummary, c.Next().Active)
	assert.Equal(t, types.ViewCitations, c.Next().Active)
	assert.Equal(t, types.ViewSummary, c.Prev().Active)
	assert.Equal(t, types.ViewBibTeX, c.Prev().Active)
}

func TestRenderShowsVisibleTabsAndActiveContent(t *testing.T) {
	c := New()
	c.Activate(types.ViewCitations, "cites")
	c.Activate(types.ViewBibTeX, "bib")

	bar, content := c.Render()
	assert.Contains(t, bar, "Citations")
	assert.Contains(t, bar, "BibTeX")
	assert.NotContains(t, bar, "Compare")
	assert.Equal(t, "bib", content)
}

func TestConcurrentActivatesKeepInvariant(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kind := types.ViewKinds[i%len(types.ViewKinds)]
			c.Activate(kind, kind.String())
		}()
	}
	wg.Wait()

	s := c.State()
	require.Len(t, s.Visible, len(types.ViewKinds))
	assert.True(t, s.IsVisible(s.Active))
	for _, v := range types.ViewKinds {
		assert.Equal(t, v.String(), s.Content[v])
	}
}
