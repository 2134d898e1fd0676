// Package ui implements an interactive terminal music player using bubbletea's Elm architecture.
//
// The TUI drives a [player.Player] and renders its state in several views:
//  1. [CollectorView] : liked songs and collected playlists
//  2. [MusicListView] : tracks of the open playlist, album or search result
//  3. [SingerView] : an artist's profile and hot songs
//  4. [QueueView] : the play queue
//  5. [DetailView] : the current song with its synced lyric
//
// Player operations run as tea.Cmd values so network calls never block rendering.
// Every dispatched action wakes the model through a store subscription, re-armed after each delivery.
//
// Keyboard navigation uses vim-style bindings with contextual help displayed via charmbracelet/bubbles/help.
package ui
