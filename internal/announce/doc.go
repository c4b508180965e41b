// Package announce routes short text announcements to two channels: a
// visible live region that always receives the text, and the speech engine
// when the screen reader is enabled. At most one utterance is active at a
// time; newer announcements cancel and replace older ones.
package announce
