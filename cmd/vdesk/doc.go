// Command vdesk lists, powers and reserves remote virtual desktops and opens
// them in remote-viewer.
package main
