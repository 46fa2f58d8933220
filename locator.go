// Package locator extracts element locators from HTML pages for use in
// browser test automation. Given a parsed document tree it enumerates ids,
// names, data-testids, links, buttons, class names and accessibility
// attributes, and synthesizes CSS selectors and absolute XPaths for every
// element.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package locator
