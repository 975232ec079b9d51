// Package render serialises vdom trees to HTML.
//
// Output is byte-compatible with what the patcher builds in a document, so a
// page rendered on the server can be taken over by a driver mounted with
// TakeOver instead of being rebuilt:
//
//	r := render.NewRenderer[Msg](render.RendererConfig{})
//	html, err := r.RenderToString(view(&model))
//
// RenderPage wraps the view in a full document that loads the thin client;
// set PageData.Static to leave the client out. StreamingRenderer flushes the
// head before rendering the body.
//
// Text and attribute values are escaped. There is no raw HTML node.
package render
