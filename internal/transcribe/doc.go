// Package transcribe turns converted audio into text. Engines wrap the
// whisper.cpp command line tool and the OpenAI Whisper API; Service splits
// long recordings into chunks and stitches the results back together.
package transcribe
