// Package tweetrnn trains character-level language models on
// line-oriented corpora (usernames, tweets) and samples new
// text from them.
package tweetrnn
