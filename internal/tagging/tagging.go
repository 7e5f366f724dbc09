// Package tagging embeds track metadata and cover art into finished
// audio files.
package tagging

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"

	"github.com/SohamBorate/spot-dl-downloader/internal/domain"
)

const artDescription = "thumbnail"

// TagFile writes metadata tags to the audio file at filePath.
func TagFile(filePath string, track *domain.Track, albumArtData []byte) error {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".mp3":
		return tagMP3(filePath, track, albumArtData)
	case ".flac":
		return tagFLAC(filePath, track, albumArtData)
	default:
		return fmt.Errorf("unsupported file format: %s", ext)
	}
}

func tagMP3(filePath string, track *domain.Track, albumArtData []byte) error {
	tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(3)

	if len(track.Artists) > 0 {
		tag.AddTextFrame("TPE1", tag.DefaultEncoding(), strings.Join(track.Artists, "\x00"))
	}
	if track.Title != "" {
		tag.SetTitle(track.Title)
	}
	if track.Album.Name != "" {
		tag.SetAlbum(track.Album.Name)
	}
	if track.Album.Artist != "" {
		tag.AddTextFrame(tag.CommonID("Band/Orchestra/Accompaniment"), tag.DefaultEncoding(), track.Album.Artist)
	}
	if track.TrackNumber > 0 {
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"), tag.DefaultEncoding(), strconv.Itoa(track.TrackNumber))
	}
	if track.DiscNumber > 0 {
		tag.AddTextFrame(tag.CommonID("Part of a set"), tag.DefaultEncoding(), strconv.Itoa(track.DiscNumber))
	}
	if track.Duration > 0 {
		tag.AddTextFrame("TLEN", tag.DefaultEncoding(), strconv.Itoa(track.Duration))
	}
	if md := track.Album.ReleaseDate.MonthDay(); md != "" {
		tag.AddTextFrame("TDAT", tag.DefaultEncoding(), md)
	}
	if track.Album.ReleaseDate.Year > 0 {
		tag.AddTextFrame("TYER", tag.DefaultEncoding(), strconv.Itoa(track.Album.ReleaseDate.Year))
	}

	// Web links: the audio link serves both the "official audio file"
	// and "official audio source" fields.
	addLinkFrame(tag, "WOAF", track.URL)
	addLinkFrame(tag, "WOAS", track.URL)
	addLinkFrame(tag, "WOAR", track.ArtistURL)

	if len(albumArtData) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: artDescription,
			Picture:     albumArtData,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save MP3 tags: %w", err)
	}
	return nil
}

// addLinkFrame writes a URL frame. URL frames carry no encoding byte,
// so the raw body is the link itself.
func addLinkFrame(tag *id3v2.Tag, id, url string) {
	if url == "" {
		return
	}
	tag.AddFrame(id, id3v2.UnknownFrame{Body: []byte(url)})
}

func tagFLAC(filePath string, track *domain.Track, albumArtData []byte) error {
	f, err := flac.ParseFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to open FLAC file: %w", err)
	}

	cmt := flacvorbis.New()
	for _, artist := range track.Artists {
		_ = cmt.Add(flacvorbis.FIELD_ARTIST, artist)
	}
	_ = cmt.Add(flacvorbis.FIELD_TITLE, track.Title)
	_ = cmt.Add(flacvorbis.FIELD_ALBUM, track.Album.Name)
	_ = cmt.Add("ALBUMARTIST", track.Album.Artist)
	if track.TrackNumber > 0 {
		_ = cmt.Add(flacvorbis.FIELD_TRACKNUMBER, strconv.Itoa(track.TrackNumber))
	}
	if track.DiscNumber > 0 {
		_ = cmt.Add("DISCNUMBER", strconv.Itoa(track.DiscNumber))
	}
	if track.Album.ReleaseDate.Year > 0 {
		_ = cmt.Add(flacvorbis.FIELD_DATE, strconv.Itoa(track.Album.ReleaseDate.Year))
	}
	if track.URL != "" {
		_ = cmt.Add("WEBSITE", track.URL)
	}

	cmtBlock := cmt.Marshal()
	f.Meta = append(f.Meta, &cmtBlock)

	if len(albumArtData) > 0 {
		picture, picErr := flacpicture.NewFromImageData(
			flacpicture.PictureTypeFrontCover, artDescription, albumArtData, "image/jpeg")
		if picErr != nil {
			return fmt.Errorf("failed to build FLAC picture block: %w", picErr)
		}
		picBlock := picture.Marshal()
		f.Meta = append(f.Meta, &picBlock)
	}

	if err := f.Save(filePath); err != nil {
		return fmt.Errorf("failed to save FLAC tags: %w", err)
	}
	return nil
}
