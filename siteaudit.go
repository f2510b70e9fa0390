// Package siteaudit crawls a business website, classifies the pages it
// finds by business role, and scores the site against a catalog of SEO
// heuristics to produce a structured audit report.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, rod/, sqlite/).
package siteaudit
