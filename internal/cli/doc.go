// Package cli implements the gophvault command-line interface.
//
// The cobra command tree in root.go turns argv into a Command value and
// hands it to (*App).Dispatch. "open" then drops into an interactive
// read-eval-print loop (see runREPL) over the opened vault:
//
//	help              show available commands
//	ls                list directories, or records inside a directory
//	mkdir NAME        add a directory
//	rmdir NAME        remove a directory
//	cd NAME|..|/      change the current directory
//	mv OLD NEW        rename a directory
//	add NAME          add a record; the value is read without echo
//	get NAME          print a record value
//	rm NAME           remove a record
//	copy NAME         copy a record value to the clipboard
//	info              show vault timestamps and cost parameters
//	save              write the vault back to its file
//	exit | quit       leave; warns once about unsaved changes
//
// Passwords are read without echo when stdin is a terminal and as a plain
// line otherwise, so the CLI can be scripted.
package cli
