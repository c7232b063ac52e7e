// Package canvas provides the drawing surfaces the renderer paints on.
//
// Raster rasterizes into pixels through gogpu/gg and can encode PNG.
// Recorder keeps an ordered log of draw calls together with the style in
// effect for each, which makes frames comparable in tests and printable for
// debugging.
//
// Both types implement geometry.Surface plus Clear. Neither is safe for
// concurrent use; the playback driver is their only writer.
package canvas

import "log/slog"

var discard = slog.New(slog.DiscardHandler)
