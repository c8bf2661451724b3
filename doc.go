/*
Package otr is the root of a small interpreted-language toolchain: a
streaming compiler, a precedence-climbing expression parser and a
bytecode-style interpreter for a curly-braced procedural language. Package
structure is as follows:

■ token: the lexical token vocabulary shared by the lexer and the compiler.

■ lexer: turns source text into a token stream (fragmentation + tokenization).

■ loader: resolves module names to source text from the file system, with
  a FIFO import queue and a seen-set.

■ value: the runtime value model (Null/Integer/Float/String/Char/Bool/Array/
  Struct/StructRef), struct prototypes, members and the addressing
  sublanguage used to read and write scope locations.

■ expr: expression trees and the atomize → precedence-sort → fold parser
  that builds them from a token slice.

■ interp: the environment, scope stack, instruction set and interpreter
  loop that execute a compiled procedure.

■ builtins: the Arrays, Strings and Numbers built-in modules.

■ compiler: the top-level streaming state machine (module/proc/struct/
  decorator/import/export) and the procedure builder that lowers statements
  to instructions.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2024 The otr authors.
*/
package otr
