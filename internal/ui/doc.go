// Package ui provides server-side enhancement helpers for HTML documents.
//
// The helpers operate on a parsed document (goquery over golang.org/x/net/html)
// the same way browser scripts operate on the live page: they mutate nodes in
// place and return small handles whose methods replay user events.
//
// # Exported helpers
//
//	ValidateForm        flag required-but-empty and malformed email fields
//	MakeTableSortable   clickable th[data-sort] headers, in-place row sort
//	MakeTableSearchable case-insensitive row filter with a "no results" row
//	CreatePagination    stateless page control (first, last, current±2)
//	CreateModal         dialog markup with id-keyed button handlers
//	ConfirmAction       cancel/confirm dialog shown through a ModalDisplay
//	CreateFilePreview   size/type checks and async image preview
//	FormatFileSize      base-1024 human readable sizes
//
// Debounce and throttle live in package timing.
//
// Missing elements (unknown ids, nil selections) turn every helper into a
// no-op. Handles returned for missing elements are nil and their methods are
// safe to call on a nil receiver.
//
// A document is single-writer: callers must not mutate it from more than one
// goroutine. The only asynchronous writer is FilePreview, which serialises its
// own writes and exposes Wait for callers that render afterwards.
package ui
