package transfer

import "fmt"

// ErrNotFTPURL is returned when a location does not use the ftp scheme.
var ErrNotFTPURL = fmt.Errorf("the URL does not appear to be an FTP server")
