// Package crys implements a small Ruby-flavoured language with two back
// ends sharing one syntax tree:
//   - An Interpreter that walks the tree, with classes, modules, metaclasses,
//     instance, class and global variables, and a `js.` bridge to a host.
//   - A Compiler that emits JavaScript, hoisting variable declarations and
//     binding runtime library functions through a single require().
//
// Supported syntax: `def name(args) ... end`, `class Name < Super ... end`,
// `module Name ... end`, if/unless/elsif/else, while/until, statement
// modifiers, arrays and indexing, symbols, and the usual arithmetic,
// comparison, bitwise and logical operators. Comments start with `#`.
//
// Classes, modules, if/unless, until and variables other than plain locals
// only run in the interpreter; compiling them fails with *UnsupportedError.
package crys
