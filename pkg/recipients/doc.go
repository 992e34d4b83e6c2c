// Package recipients imports outreach recipients from CSV or Excel files.
//
// A file needs a header row with the columns Names and Emails; other columns
// are ignored, as are rows missing either value.
//
//	list, err := recipients.Parse(header.Filename, file)
//	if errors.Is(err, recipients.ErrMissingColumns) {
//		// tell the user which columns are required
//	}
package recipients
