package echoapi

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Diva-jaw/Frontend--sub001/core/catalog"
	"github.com/Diva-jaw/Frontend--sub001/core/menu"
	metricsvc "github.com/Diva-jaw/Frontend--sub001/services/metrics"
	"github.com/Diva-jaw/Frontend--sub001/ui"
)

type menuApi struct {
	dropdown *menu.Dropdown
	store    menu.Store
	metrics  *metricsvc.Metrics
}

// DispatchResponse is the answer to a click: what the client must do, and the resulting panel.
type DispatchResponse struct {
	Outcome menu.Outcome `json:"outcome"`
	Panel   menu.Panel   `json:"panel"`
}

func registerMenuAPI(g *echo.Group, dropdown *menu.Dropdown, store menu.Store, metrics *metricsvc.Metrics) *menuApi {
	api := &menuApi{
		dropdown: dropdown,
		store:    store,
		metrics:  metrics,
	}

	mg := g.Group("/menu")
	mg.GET("", api.retrieve)
	mg.POST("/open", api.transition(func(st *menu.State) error { st.OpenPanel(); return nil }))
	mg.POST("/close", api.transition(func(st *menu.State) error { st.ClosePanel(); return nil }))
	mg.POST("/dismiss", api.transition(func(st *menu.State) error { st.Dismiss(); return nil }))
	mg.POST("/categories/:name", api.selectCategory)
	mg.POST("/modules/:module/toggle", api.toggleModule)
	mg.POST("/levels/:module/:level/hover", api.hoverLevel)
	mg.DELETE("/levels/hover", api.transition(func(st *menu.State) error { st.ClearHover(); return nil }))
	mg.POST("/levels/:module/:level/click", api.clickLevel)
	mg.DELETE("/modal", api.transition(func(st *menu.State) error { st.CloseModal(); return nil }))
	mg.POST("/modal/tracks/:track/click", api.clickTrack)

	return api
}

// Helpers

// load returns the visitor's state. A state the catalog no longer fits is dropped.
func (api *menuApi) load(ctx echo.Context) (string, menu.State, error) {
	vs, err := getVisitorSession(ctx)
	if err != nil {
		return "", menu.State{}, err
	}
	st, err := api.store.Load(ctx.Request().Context(), vs.ID())
	if err != nil {
		return "", menu.State{}, errors.Wrap(err, "loading menu state")
	}
	if err = api.dropdown.Validate(st); err != nil {
		ctx.Logger().Warnf("dropping menu state of %s: %v", vs.ID(), err)
		st = menu.State{}
	}
	return vs.ID(), st, nil
}

func (api *menuApi) save(ctx echo.Context, visitorID string, st menu.State) error {
	return errors.Wrap(api.store.Save(ctx.Request().Context(), visitorID, st), "saving menu state")
}

func (api *menuApi) respond(ctx echo.Context, st menu.State) error {
	panel, err := api.dropdown.Panel(st)
	if err != nil {
		return errors.Wrap(err, "building panel")
	}
	if isHTMXRequest(ctx) {
		return renderNode(ctx, http.StatusOK, ui.Dropdown(panel))
	}
	return ctx.JSON(http.StatusOK, panel)
}

func (api *menuApi) transition(fn func(st *menu.State) error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		vid, st, err := api.load(ctx)
		if err != nil {
			return err
		}
		if err = fn(&st); err != nil {
			return err
		}
		if err = api.save(ctx, vid, st); err != nil {
			return err
		}
		return api.respond(ctx, st)
	}
}

func intParam(ctx echo.Context, name string) (int, error) {
	i, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return i, nil
}

// Handlers

func (api *menuApi) retrieve(ctx echo.Context) error {
	_, st, err := api.load(ctx)
	if err != nil {
		return err
	}
	return api.respond(ctx, st)
}

func (api *menuApi) render(ctx echo.Context) error {
	_, st, err := api.load(ctx)
	if err != nil {
		return err
	}
	panel, err := api.dropdown.Panel(st)
	if err != nil {
		return errors.Wrap(err, "building panel")
	}
	return renderNode(ctx, http.StatusOK, ui.Dropdown(panel))
}

func (api *menuApi) selectCategory(ctx echo.Context) error {
	name, err := url.PathUnescape(ctx.Param("name"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	return api.transition(func(st *menu.State) error {
		err := api.dropdown.SelectCategory(st, name)
		if errors.Cause(err) == catalog.ErrNotFound {
			return categoryNotFound(api.dropdown.Catalog(), name)
		}
		return err
	})(ctx)
}

func (api *menuApi) toggleModule(ctx echo.Context) error {
	mi, err := intParam(ctx, "module")
	if err != nil {
		return err
	}
	return api.transition(func(st *menu.State) error {
		return api.dropdown.ToggleModule(st, mi)
	})(ctx)
}

func (api *menuApi) hoverLevel(ctx echo.Context) error {
	mi, err := intParam(ctx, "module")
	if err != nil {
		return err
	}
	li, err := intParam(ctx, "level")
	if err != nil {
		return err
	}
	return api.transition(func(st *menu.State) error {
		return api.dropdown.HoverLevel(st, mi, li)
	})(ctx)
}

func (api *menuApi) clickLevel(ctx echo.Context) error {
	mi, err := intParam(ctx, "module")
	if err != nil {
		return err
	}
	li, err := intParam(ctx, "level")
	if err != nil {
		return err
	}
	return api.dispatch(ctx, func(st *menu.State) (menu.Outcome, error) {
		return api.dropdown.ClickLevel(st, mi, li)
	})
}

func (api *menuApi) clickTrack(ctx echo.Context) error {
	ti, err := intParam(ctx, "track")
	if err != nil {
		return err
	}
	return api.dispatch(ctx, func(st *menu.State) (menu.Outcome, error) {
		return api.dropdown.ClickTrack(st, ti)
	})
}

func (api *menuApi) dispatch(ctx echo.Context, click func(st *menu.State) (menu.Outcome, error)) error {
	vid, st, err := api.load(ctx)
	if err != nil {
		return err
	}
	out, err := click(&st)
	if err != nil {
		return err
	}
	api.metrics.ObserveDispatch(string(out.Kind))
	if out.Kind == menu.KindNone {
		ctx.Logger().Debugf("no route for %s", out.Key)
	}

	if err = api.save(ctx, vid, st); err != nil {
		return err
	}
	panel, err := api.dropdown.Panel(st)
	if err != nil {
		return errors.Wrap(err, "building panel")
	}
	if isHTMXRequest(ctx) {
		if out.Kind == menu.KindNavigate {
			ctx.Response().Header().Set("HX-Redirect", out.Path)
		}
		return renderNode(ctx, http.StatusOK, ui.Dropdown(panel))
	}
	return ctx.JSON(http.StatusOK, DispatchResponse{Outcome: out, Panel: panel})
}
