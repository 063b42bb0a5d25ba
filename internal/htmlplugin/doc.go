// Package htmlplugin holds the HTML generation plugin's side of asset injection:
// the per-type lists of public asset paths it renders, and the file adder it
// exposes for registering raw files in a compilation.
package htmlplugin
