// Command m3ugen prints the playlist LocalCast would serve for one scope,
// without starting the server.
//
//	m3ugen --root /srv/tv_content --base-url http://192.168.1.20:8000 > common.m3u
//	m3ugen --root /srv/tv_content --base-url http://192.168.1.20:8000 --collection 7
//
// The root and base URL may also come from LOCALCAST_MEDIA_ROOT and
// LOCALCAST_PUBLIC_BASE_URL. Extensions default to the server's list. The
// exit status is non-zero when the collection id is rejected or the
// directory cannot be read.
package main
