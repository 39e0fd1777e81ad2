// Package compiler provides the tokenizer, parser and bytecode generator for
// the arithmetic expression language.
//
// Pipeline: source → Tokenize → Parse → Generate → vm.Program
package compiler
