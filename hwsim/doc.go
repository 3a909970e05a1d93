/*
Package hwsim provides the tools needed to describe a small synchronous circuit
using Go as a hardware description language and to run it cycle by cycle.

This includes a naive hardware simulator and an API to compose basic components
(logic gates, muxers, flip-flops, etc.) into more complex ones. The counter4
module uses it to run the 4-bit counter design, either as a gate-level netlist
or as a behavioural model, under a testbench that drives its pins.

The simulation runs in steps. Every step, each component reads the wire states
of the previous step and writes the next ones. A clock cycle is SPC() steps
long; clocked components latch their inputs on the raising edge of the clock
(see Circuit.AtEdge).

The API is designed to mimic a real hardware description language. As a
result, it relies heavily on closures and can feel a bit awkward when
implementing custom components. MakePart provides a struct based alternative.

*/
package hwsim
