// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go representation of an HDL project manifest:
// the source records that make up the shared compiled library, the test
// suites fanned out against it, and the single-run test labs.
//
// # Core Concepts
//
//   - SourceRecord: one HDL file with its ordering key, file kind and origin
//     (main sources or testbench sources).
//
//   - SuiteDecl / TestSuiteSpec: a declared test suite and its expanded runs.
//     A suite with a repeat count expands into one TestSuiteSpec per run index.
//
//   - TestLabSpec: a single simulation run that never takes part in result
//     aggregation.
//
//   - Manifest: the root aggregate handed to the plan generator.
//
// The model is format-agnostic. Loaders for concrete manifest formats live in
// the manifest package and produce a Manifest; nothing here touches the disk.
package model
