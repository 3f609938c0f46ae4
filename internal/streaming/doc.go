/*
Package streaming protects long media responses from stalled clients.

The HTTP server runs without a global write timeout because a single video
may take hours to play. [IdleWriter] replaces it with an idle timeout: every
write moves the connection's write deadline forward by the idle period, so a
player that keeps reading is never cut off and one that stops reading is
dropped after [DefaultIdleTimeout].

	iw := streaming.NewIdleWriter(w, streaming.DefaultIdleTimeout)
	http.ServeContent(iw, r, name, modTime, file)
	n, d := iw.Stats()

Deadlines are applied through http.ResponseController, so every wrapper
between the server and IdleWriter must implement Unwrap. When the chain
does not support deadlines (httptest recorders, for instance) IdleWriter
degrades to a plain byte-counting writer.
*/
package streaming
