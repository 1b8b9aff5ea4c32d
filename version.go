package lox

// Version is the interpreter version reported by the CLI.
var Version = "0.3.1"

// BuildDate can be stamped at link time (-X).
var BuildDate = "unknown"
