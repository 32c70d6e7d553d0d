package table

// romanHiraganaTSV is a compact romaji-to-hiragana rewrite table covering
// the vowels, the unvoiced/voiced/semi-voiced consonant rows, the "n"
// mora with its pending-resolution behaviour, small-tsu gemination, and
// a couple of punctuation rows used by the number transform. It is not
// exhaustive (no yoon/contracted sounds) but is enough to drive the
// documented end-to-end scenarios and to serve as
// NewDefaultRomanToHiragana's seed. A bare consonant like "k" or "s" has
// no row of its own: it has no exact rule, only a longer prefix, which is
// exactly what keeps it pending verbatim until a vowel completes it.
const romanHiraganaTSV = `# vowels
a	あ
i	い
u	う
e	え
o	お
# k row
ka	か
ki	き
ku	く
ke	け
ko	こ
# s row
sa	さ
shi	し
si	し
su	す
se	せ
so	そ
# z row (voiced s)
za	ざ
ji	じ
zi	じ
zu	ず
ze	ぜ
zo	ぞ
# t row
ta	た
chi	ち
tsu	つ
te	て
to	と
# n row: a bare "n" is tentatively ん but stays pending for na/ni/.../nn
n	ん	n
nn	ん
na	な
ni	に
nu	ぬ
ne	ね
no	の
# h/b/p row
ha	は
hi	ひ
fu	ふ
he	へ
ho	ほ
ba	ば
bi	び
bu	ぶ
be	べ
bo	ぼ
pa	ぱ
pi	ぴ
pu	ぷ
pe	ぺ
po	ぽ
# m row
ma	ま
mi	み
mu	む
me	め
mo	も
# y row
ya	や
yu	ゆ
yo	よ
# r row
ra	ら
ri	り
ru	る
re	れ
ro	ろ
# w row
wa	わ
wo	を
# small tsu gemination: the doubled consonant seals as っ and keeps the
# trailing consonant pending so the following vowel still resolves it
kk	っ	k
ss	っ	s
tt	っ	t
pp	っ	p
# punctuation used by the number transform
-	ー
,	、
.	。
`

// NewDefaultRomanToHiragana returns a Table preloaded with
// romanHiraganaTSV, equivalent in spirit to Mozc's bundled
// "system://romanji-hiragana.tsv" resource referenced by the interactive
// driver.
func NewDefaultRomanToHiragana() *Table {
	t := New()
	t.Load([]byte(romanHiraganaTSV))
	return t
}
