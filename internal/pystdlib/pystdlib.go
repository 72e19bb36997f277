// Package pystdlib provides the set of top-level standard-library module
// names for a given Python version. Import names in this set are never
// third-party requirements and are dropped from discovery output.
//
// The tables track sys.stdlib_module_names: a 3.10 baseline plus the
// documented additions and removals through 3.13. Versions newer than the
// latest known table fall back to the latest table; versions older than 3.10
// fall back to the baseline.
package pystdlib

import "strings"

// baseline310 is the 3.10 top-level module list.
var baseline310 = []string{
	"__future__", "_thread", "abc", "aifc", "antigravity", "argparse",
	"array", "ast", "asynchat", "asyncio", "asyncore", "atexit", "audioop",
	"base64", "bdb", "binascii", "binhex", "bisect", "builtins", "bz2",
	"cProfile", "calendar", "cgi", "cgitb", "chunk", "cmath", "cmd", "code",
	"codecs", "codeop", "collections", "colorsys", "compileall",
	"concurrent", "configparser", "contextlib", "contextvars", "copy",
	"copyreg", "crypt", "csv", "ctypes", "curses", "dataclasses",
	"datetime", "dbm", "decimal", "difflib", "dis", "distutils", "doctest",
	"email", "encodings", "ensurepip", "enum", "errno", "faulthandler",
	"fcntl", "filecmp", "fileinput", "fnmatch", "fractions", "ftplib",
	"functools", "gc", "genericpath", "getopt", "getpass", "gettext",
	"glob", "graphlib", "grp", "gzip", "hashlib", "heapq", "hmac", "html",
	"http", "idlelib", "imaplib", "imghdr", "imp", "importlib", "inspect",
	"io", "ipaddress", "itertools", "json", "keyword", "lib2to3",
	"linecache", "locale", "logging", "lzma", "mailbox", "mailcap",
	"marshal", "math", "mimetypes", "mmap", "modulefinder", "msilib",
	"msvcrt", "multiprocessing", "netrc", "nis", "nntplib", "ntpath",
	"nturl2path", "numbers", "opcode", "operator", "optparse", "os",
	"ossaudiodev", "pathlib", "pdb", "pickle", "pickletools", "pipes",
	"pkgutil", "platform", "plistlib", "poplib", "posix", "posixpath",
	"pprint", "profile", "pstats", "pty", "pwd", "py_compile", "pyclbr",
	"pydoc", "queue", "quopri", "random", "re", "readline", "reprlib",
	"resource", "rlcompleter", "runpy", "sched", "secrets", "select",
	"selectors", "shelve", "shlex", "shutil", "signal", "site", "smtpd",
	"smtplib", "sndhdr", "socket", "socketserver", "spwd", "sqlite3",
	"sre_compile", "sre_constants", "sre_parse", "ssl", "stat",
	"statistics", "string", "stringprep", "struct", "subprocess", "sunau",
	"symtable", "sys", "sysconfig", "syslog", "tabnanny", "tarfile",
	"telnetlib", "tempfile", "termios", "test", "textwrap", "this",
	"threading", "time", "timeit", "tkinter", "token", "tokenize", "trace",
	"traceback", "tracemalloc", "tty", "turtle", "turtledemo", "types",
	"typing", "unicodedata", "unittest", "urllib", "uu", "uuid", "venv",
	"warnings", "wave", "weakref", "webbrowser", "winreg", "winsound",
	"wsgiref", "xdrlib", "xml", "xmlrpc", "zipapp", "zipfile", "zipimport",
	"zlib", "zoneinfo",
}

// Per-version deltas relative to the previous table.
var (
	added311   = []string{"tomllib"}
	removed311 = []string{"binhex"}

	removed312 = []string{"asynchat", "asyncore", "distutils", "imp", "smtpd"}

	// PEP 594 "dead batteries", plus lib2to3.
	removed313 = []string{
		"aifc", "audioop", "cgi", "cgitb", "chunk", "crypt", "imghdr",
		"lib2to3", "mailcap", "msilib", "nis", "nntplib", "ossaudiodev",
		"pipes", "sndhdr", "spwd", "sunau", "telnetlib", "uu", "xdrlib",
	}
)

// LatestMinor is the newest 3.x minor version with its own table.
const LatestMinor = 13

// Names returns the stdlib module-name set for Python major.minor. Keys are
// lower-cased to match import names as they come out of extraction. The
// returned map is freshly built on each call and safe to mutate.
func Names(major, minor int) map[string]bool {
	set := make(map[string]bool, len(baseline310))
	for _, name := range baseline310 {
		set[strings.ToLower(name)] = true
	}
	if major < 3 {
		// Python 2 is out of scope; the baseline is the closest answer.
		return set
	}
	if major > 3 || minor > LatestMinor {
		minor = LatestMinor
	}
	if minor >= 11 {
		apply(set, added311, removed311)
	}
	if minor >= 12 {
		apply(set, nil, removed312)
	}
	if minor >= 13 {
		apply(set, nil, removed313)
	}
	return set
}

func apply(set map[string]bool, added, removed []string) {
	for _, name := range added {
		set[strings.ToLower(name)] = true
	}
	for _, name := range removed {
		delete(set, strings.ToLower(name))
	}
}
