// Package ui is the Bubble Tea front end of the ideas client.
//
// # Layout
//
// One screen, top to bottom:
//
//   - Header: logo, the shareable view URL, sort order, page size and a
//     loading indicator
//   - Command bar: the active key bindings and the current theme
//   - Banner band: title and subtitle from the banner document
//   - Cards: a scrollable viewport holding the current page as a grid
//   - Footer: pagination controls and the "Showing X - Y of Z" summary
//
// # Scrolling
//
// The banner band collapses at half the scroll speed of the cards. The
// header turns compact (the view URL is dropped) once the cards scroll past
// two rows, and hides while scrolling down past four rows. Scrolling back up
// brings it back.
//
// # Data Flow
//
// Every paging, size or sort key calls into the controller, which commits the
// new view state and returns a request. The model turns that into a tea.Cmd
// that performs the fetch off the update loop and comes back as a fetchedMsg.
// Results of superseded requests are dropped by the controller; the model
// only re-reads the render snapshot.
//
// Rejected actions such as paging past the last page leave the state alone
// and show a notice in the footer.
//
// # Preferences
//
// T cycles the theme and c cycles the number of card columns. Both are saved
// to the preferences file immediately.
package ui
