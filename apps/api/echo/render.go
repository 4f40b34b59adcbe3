package echoapi

import (
	"bytes"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	g "maragu.dev/gomponents"
)

func isHTMXRequest(ctx echo.Context) bool {
	return ctx.Request().Header.Get("HX-Request") == "true"
}

// renderNode writes an HTML fragment. The node is rendered before anything is sent,
// so a rendering failure still goes through the error handler.
func renderNode(ctx echo.Context, code int, node g.Node) error {
	var buf bytes.Buffer
	if err := node.Render(&buf); err != nil {
		return errors.Wrap(err, "rendering html")
	}
	return ctx.HTMLBlob(code, buf.Bytes())
}
