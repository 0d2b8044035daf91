// Package formatter renders query results for the CLI.
//
// This package is organized into:
// - wrapper.go: conversion of result types into header/row tables
// - json.go: JSON serialization of the result values themselves
// - csv.go: CSV serialization of tables
// - table.go: aligned terminal tables
package formatter
