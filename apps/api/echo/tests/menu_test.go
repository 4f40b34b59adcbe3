package tests

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/Diva-jaw/Frontend--sub001/apps/api/echo"
	"github.com/Diva-jaw/Frontend--sub001/core/menu"
)

func Test_menuApi_transitions(t *testing.T) {
	app := setup(t)
	v := newVisitor(app)

	var p menu.Panel
	rec := v.do(http.MethodGet, "/v1/menu")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &p)
	assert.False(t, p.State.Open)
	assert.Len(t, p.Tabs, len(app.catalog.Categories()))
	assert.Empty(t, p.Modules)

	steps := []struct {
		name   string
		method string
		path   string
		check  func(t *testing.T, p menu.Panel)
	}{
		{
			name: "open", method: http.MethodPost, path: "/v1/menu/open",
			check: func(t *testing.T, p menu.Panel) { assert.True(t, p.State.Open) },
		},
		{
			name: "select category", method: http.MethodPost, path: "/v1/menu/categories/full%20stack",
			check: func(t *testing.T, p menu.Panel) {
				assert.Equal(t, "Full Stack", p.Category)
				assert.Len(t, p.Modules, 3)
				assert.True(t, p.Tabs[1].Selected)
			},
		},
		{
			name: "toggle module", method: http.MethodPost, path: "/v1/menu/modules/0/toggle",
			check: func(t *testing.T, p menu.Panel) {
				require.NotNil(t, p.State.ExpandedModule)
				assert.Equal(t, 0, *p.State.ExpandedModule)
				assert.Len(t, p.Modules[0].Cards, 3)
			},
		},
		{
			name: "hover", method: http.MethodPost, path: "/v1/menu/levels/0/1/hover",
			check: func(t *testing.T, p menu.Panel) {
				assert.Equal(t, "0-1", p.State.HoveredLevel)
				assert.True(t, p.Modules[0].Cards[1].Hovered)
			},
		},
		{
			name: "clear hover", method: http.MethodDelete, path: "/v1/menu/levels/hover",
			check: func(t *testing.T, p menu.Panel) { assert.Empty(t, p.State.HoveredLevel) },
		},
		{
			name: "toggle again collapses", method: http.MethodPost, path: "/v1/menu/modules/0/toggle",
			check: func(t *testing.T, p menu.Panel) {
				assert.Nil(t, p.State.ExpandedModule)
				assert.Empty(t, p.Modules[0].Cards)
			},
		},
		{
			name: "dismiss", method: http.MethodPost, path: "/v1/menu/dismiss",
			check: func(t *testing.T, p menu.Panel) { assert.Equal(t, menu.State{}, p.State) },
		},
	}
	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			rec := v.do(step.method, step.path)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var p menu.Panel
			decode(t, rec, &p)
			step.check(t, p)
		})
	}

	t.Run("state is per visitor", func(t *testing.T) {
		other := newVisitor(app)
		other.do(http.MethodPost, "/v1/menu/open")

		var p menu.Panel
		decode(t, v.do(http.MethodGet, "/v1/menu"), &p)
		assert.False(t, p.State.Open)
	})
}

func Test_menuApi_dispatch(t *testing.T) {
	app := setup(t)

	prepare := func(t *testing.T, category string, module int) *visitor {
		v := newVisitor(app)
		for _, path := range []string{
			"/v1/menu/open",
			"/v1/menu/categories/" + category,
			"/v1/menu/modules/" + strconv.Itoa(module) + "/toggle",
		} {
			rec := v.do(http.MethodPost, path)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		}
		return v
	}

	t.Run("navigate", func(t *testing.T) {
		v := prepare(t, "Data%20Science%20%26%20AI", 0)
		rec := v.do(http.MethodPost, "/v1/menu/levels/0/2/click")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res DispatchResponse
		decode(t, rec, &res)
		assert.Equal(t, menu.KindNavigate, res.Outcome.Kind)
		assert.Equal(t, "/data-science/level-3", res.Outcome.Path)
		assert.Equal(t, menu.State{}, res.Panel.State)
	})
	t.Run("sub-modal then track", func(t *testing.T) {
		v := prepare(t, "Full%20Stack", 0)
		rec := v.do(http.MethodPost, "/v1/menu/levels/0/2/click")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res DispatchResponse
		decode(t, rec, &res)
		assert.Equal(t, menu.KindSubModal, res.Outcome.Kind)
		assert.Equal(t, menu.ModalWebDevExpert, res.Outcome.Modal)
		require.NotNil(t, res.Panel.SubModal)
		assert.Equal(t, menu.ModalWebDevExpert, res.Panel.SubModal.ID)
		assert.True(t, res.Panel.State.Open)

		rec = v.do(http.MethodPost, "/v1/menu/modal/tracks/0/click")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var nav DispatchResponse
		decode(t, rec, &nav)
		assert.Equal(t, menu.KindNavigate, nav.Outcome.Kind)
		sm, err := menu.SubModalFor(menu.ModalWebDevExpert)
		require.NoError(t, err)
		assert.Equal(t, sm.Tracks[0].Path, nav.Outcome.Path)
		assert.Nil(t, nav.Panel.SubModal)
		assert.Equal(t, menu.State{}, nav.Panel.State)
	})
	t.Run("close sub-modal", func(t *testing.T) {
		v := prepare(t, "Full%20Stack", 1)
		v.do(http.MethodPost, "/v1/menu/levels/1/0/click")

		rec := v.do(http.MethodDelete, "/v1/menu/modal")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var p menu.Panel
		decode(t, rec, &p)
		assert.Nil(t, p.SubModal)
		assert.Equal(t, "Full Stack", p.Category)
	})
	t.Run("no route", func(t *testing.T) {
		v := prepare(t, "Marketing", 1)
		rec := v.do(http.MethodPost, "/v1/menu/levels/1/0/click")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res DispatchResponse
		decode(t, rec, &res)
		assert.Equal(t, menu.KindNone, res.Outcome.Kind)
		assert.Equal(t, "Marketing", res.Panel.State.SelectedCategory)
		require.NotNil(t, res.Panel.State.ExpandedModule)
		assert.Equal(t, 1, *res.Panel.State.ExpandedModule)
	})

	tests := []httpTest{
		{
			name: "click without category", method: http.MethodPost, path: "/v1/menu/levels/0/0/click",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: menu.ErrNoCategory.Error()}),
		},
		{
			name: "track without sub-modal", method: http.MethodPost, path: "/v1/menu/modal/tracks/0/click",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: menu.ErrNoModal.Error()}),
		},
		{
			name: "toggle without category", method: http.MethodPost, path: "/v1/menu/modules/0/toggle",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: menu.ErrNoCategory.Error()}),
		},
		{
			name: "invalid index", method: http.MethodPost, path: "/v1/menu/modules/abc/toggle",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "invalid module"}),
		},
		{
			name: "hover without category", method: http.MethodPost, path: "/v1/menu/levels/0/0/hover",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: menu.ErrNoCategory.Error()}),
		},
		{
			name: "escaped category", method: http.MethodPost, path: "/v1/menu/categories/Data%20Science%20%26%20AI",
			wantCode: http.StatusOK,
		},
		{
			name: "unknown category", method: http.MethodPost, path: "/v1/menu/categories/Desgin",
			wantCode: http.StatusNotFound, wantData: []byte(`{"error": "category not found", "suggestions": ["Design"]}`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, newVisitor(app).do(tt.method, tt.path))
		})
	}

	t.Run("out of range", func(t *testing.T) {
		v := prepare(t, "Full%20Stack", 0)
		rec := v.do(http.MethodPost, "/v1/menu/levels/0/9/click")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec = v.do(http.MethodPost, "/v1/menu/modules/9/toggle")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec = v.do(http.MethodPost, "/v1/menu/levels/0/9/hover")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := newVisitor(app).do(http.MethodGet, "/metrics")
		body := rec.Body.String()
		assert.Contains(t, body, `institute_menu_dispatch_total{kind="navigate"} 2`)
		assert.Contains(t, body, `institute_menu_dispatch_total{kind="open-sub-modal"} 2`)
		assert.Contains(t, body, `institute_menu_dispatch_total{kind="none"} 1`)
	})
}

func Test_menuApi_html(t *testing.T) {
	app := setup(t)
	v := newVisitor(app)
	v.do(http.MethodPost, "/v1/menu/open")
	v.do(http.MethodPost, "/v1/menu/categories/Design")

	rec := v.do(http.MethodGet, "/menu")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `<nav id="courses-dropdown" class="courses-dropdown open">`)
	assert.Contains(t, rec.Body.String(), `data-category="Design"`)

	t.Run("htmx", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/menu/close")
		for _, c := range v.cookies {
			req.AddCookie(c)
		}
		req.Header.Set("HX-Request", "true")
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Body.String(), `<nav id="courses-dropdown" class="courses-dropdown">`))
	})
}
