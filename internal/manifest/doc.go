// Package manifest reads project manifests into the format-agnostic
// model.Manifest.
//
// Two formats are understood. HCL manifests declare one `project` block and
// any number of `source`, `test_suite` and `test_lab` blocks:
//
//	project "simstm" {
//	  tb_top_entity = "tbTop"
//	}
//
//	source "src/vhdl/tb_base_pkg.vhd" {
//	  type  = "VHDL 2008"
//	  order = "010"
//	}
//
//	test_suite "testSuiteBasic" {
//	  entry_file  = "testMainSuiteBasic.stm"
//	  entry_label = "$testMainSuiteBasic"
//	  indexes     = 2
//	}
//
// YAML manifests carry the same data under the keys project, sources,
// test_suites and test_labs. The loader is chosen by file extension.
package manifest
