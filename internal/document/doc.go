// ============================================================================
// transync - Translation File Synchronization
// ============================================================================
//
// Package:     document
// Description: In-memory model of the XML translation file
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

// Package document models the persisted translation file:
//
//	<translations>
//	  <entry>
//	    <!-- Found in: src/main.go @ 12 -->
//	    <key>Hello</key>
//	    <value lang="de">Hallo</value>
//	  </entry>
//	  <context id="Menu">...</context>
//	</translations>
//
// The model keeps everything a human may have written: comments stay where
// they were, malformed shapes (keyless entries, values without lang, contexts
// without id) are represented instead of rejected, and unknown elements are
// carried as raw XML. Key and value text is stored with backslash escapes
// undecoded so that writing a loaded document reproduces it; Key.Text and
// Value.Text return the decoded form.
package document
