// Package rules loads the external rule data of an audit pass.
//
// Rule data lives in spreadsheet tabs: the classification matrix, the
// model grouping used for the link whitelist, and keyword lists. A
// SheetReader fetches raw rows; Table addresses them by header; Load
// combines everything with the compiled profile into a read-only RuleSet.
//
// Read failures never abort a pass. They are logged and the affected data
// is treated as empty.
package rules
