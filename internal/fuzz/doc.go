// Package fuzztests houses Go fuzz harnesses that exercise the front half of
// the interpreter pipeline (source -> lexer -> compiler). Its goal is to
// smoke test robustness and guard against panics or allocator explosions on
// arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер/компилятор.
//
// Не делает: генерацию корпусов, запись файлов, выполнение байткода.
//
// Зависимости: internal/source, internal/lexer, internal/compiler,
// internal/diag, internal/vm.
package fuzztests
