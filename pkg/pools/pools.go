// Package pools provides object pooling for reducing GC pressure.
//
// Rendered SVG documents run to tens of kilobytes per request, so the HTTP
// renderer borrows its output buffers from a BufferPool instead of growing a
// fresh one each time.
package pools
