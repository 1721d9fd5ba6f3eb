// Package core turns registered tables and forms into enhanced documents.
//
// It sits between the transport layer and package ui: HTTP handlers
// describe what the user did (a page, a sort, a search term, a submitted
// form, a selected file) and core replays that interaction onto a freshly
// built document.
//
// # Registry
//
// Tables and forms are registered at init time, usually from package
// catalog:
//
//	core.RegisterTable(core.TableDefinition{
//	    Info: core.TableInfo{Key: "users", Group: "Directory", Label: "Users"},
//	    Columns: []core.ColumnSpec{
//	        {Key: "name", Label: "Name", Sortable: true},
//	        {Key: "email", Label: "Email"},
//	    },
//	})
//
// # Views
//
// [Service.TableView] reads one page from a [store.RowSource], renders it and
// applies sorting, searching and pagination. [Service.ValidateForm] fills a
// form with submitted values and validates it. [Service.Preview] runs the
// file preview behind a [PreviewLimiter].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code prefix: FORM, FILE, TBL, UPL, RATE and DB.
package core
